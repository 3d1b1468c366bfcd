package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"golang.org/x/crypto/bcrypt"

	"book-sharing-service/internal/handlers"
	"book-sharing-service/internal/utils"
)

func authRouter(h *handlers.AuthHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/signup", h.Signup).Methods("POST")
	router.HandleFunc("/login", h.Login).Methods("POST")
	return router
}

func TestAuthHandler_Login(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("unknown user maps to 404", func(mt *mtest.T) {
		handler := &handlers.AuthHandler{UserCollection: mt.Coll, AuditLogger: utils.Logger{Collection: mt.Coll}}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		body, _ := json.Marshal(handlers.LoginRequest{Username: "ghost", Password: "pw"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		authRouter(handler).ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})

	mt.Run("wrong password maps to 401", func(mt *mtest.T) {
		handler := &handlers.AuthHandler{UserCollection: mt.Coll, AuditLogger: utils.Logger{Collection: mt.Coll}}

		hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "username", Value: "alice"},
			{Key: "password", Value: string(hash)},
		}))

		body, _ := json.Marshal(handlers.LoginRequest{Username: "alice", Password: "battery-staple"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		authRouter(handler).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status Unauthorized, got %v", w.Code)
		}
	})
}

func TestAuthHandler_Signup(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("missing credentials are rejected", func(mt *mtest.T) {
		handler := &handlers.AuthHandler{UserCollection: mt.Coll, AuditLogger: utils.Logger{Collection: mt.Coll}}

		req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader([]byte("{}")))
		w := httptest.NewRecorder()

		authRouter(handler).ServeHTTP(w, req)

		if w.Code != http.StatusNotAcceptable {
			t.Errorf("expected status NotAcceptable, got %v", w.Code)
		}
	})
}
