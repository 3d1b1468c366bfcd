package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"book-sharing-service/internal/constants"
	"book-sharing-service/internal/models"
	"book-sharing-service/internal/utils"
)

type AuthHandler struct {
	UserCollection *mongo.Collection
	AuditLogger    utils.Logger
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /signup
func (a *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusNotAcceptable)
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.JSONError(w, "Username and password are required", http.StatusNotAcceptable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := a.UserCollection.CountDocuments(ctx, bson.M{"username": req.Username})
	if err != nil {
		utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		utils.JSONError(w, "User already exists", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := a.UserCollection.InsertOne(ctx, user)
	if err != nil {
		utils.JSONError(w, "Internal server error. Could not create user", http.StatusInternalServerError)
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	a.AuditLogger.Log(ctx, models.UserEntity, constants.Signup, user.ID.Hex(), user.Username)

	utils.SendResponse(w, utils.Response{Message: "User created", Status: true, Data: user}, http.StatusOK)
}

// POST /login
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request", http.StatusNotAcceptable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := a.UserCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user); err != nil {
		utils.JSONError(w, "Requested user was not found", http.StatusNotFound)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	a.AuditLogger.Log(ctx, models.UserEntity, constants.Login, user.ID.Hex(), user.Username)

	utils.SendResponse(w, utils.Response{Message: "Login successful", Status: true, Data: token}, http.StatusOK)
}
