package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"book-sharing-service/internal/constants"
	"book-sharing-service/internal/models"
	"book-sharing-service/internal/store"
	"book-sharing-service/internal/utils"
)

type BookHandler struct {
	BookCollection *mongo.Collection
	StateStore     *store.BookStateStore
	AuditLogger    utils.Logger
}

func NewBookHandler(bookColl *mongo.Collection, stateStore *store.BookStateStore, logger utils.Logger) *BookHandler {
	return &BookHandler{
		BookCollection: bookColl,
		StateStore:     stateStore,
		AuditLogger:    logger,
	}
}

// POST /books
// Uploading a book also creates its state record: AVAILABLE, owned by the
// caller, empty request queue.
func (h *BookHandler) UploadBook(w http.ResponseWriter, r *http.Request) {
	owner, ok := currentUserID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var book models.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		utils.JSONError(w, "Invalid payload", http.StatusNotAcceptable)
		return
	}
	if book.Title == "" {
		utils.JSONError(w, "Book title is required", http.StatusNotAcceptable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	book.ID = primitive.NewObjectID()
	book.CreatedAt = time.Now()

	if _, err := h.BookCollection.InsertOne(ctx, book); err != nil {
		utils.JSONError(w, "Internal server error. Could not save book", http.StatusInternalServerError)
		return
	}

	state := models.BookState{
		BookID:     book.ID,
		Status:     models.StatusAvailable,
		UploadedBy: owner,
	}
	if err := h.StateStore.Create(ctx, &state); err != nil {
		utils.JSONError(w, "Internal server error. Could not create book state", http.StatusInternalServerError)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, owner.Hex(), book)

	utils.SendResponse(w, utils.Response{
		Message: "Book uploaded",
		Status:  true,
		Data: map[string]any{
			"book":  book,
			"state": state,
		},
	}, http.StatusOK)
}

// GET /books
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := h.BookCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.JSONError(w, "Failed to fetch books", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var books []models.Book
	if err = cursor.All(ctx, &books); err != nil {
		utils.JSONError(w, "Error decoding books", http.StatusInternalServerError)
		return
	}

	if len(books) == 0 {
		utils.JSONError(w, "No books found", http.StatusNotFound)
		return
	}

	utils.SendResponse(w, utils.Response{Message: "Books found", Status: true, Data: books}, http.StatusOK)
}

// GET /books/{bookId}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bookId"])
	if err != nil {
		utils.JSONError(w, "Invalid book id", http.StatusNotAcceptable)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var book models.Book
	if err := h.BookCollection.FindOne(ctx, bson.M{"_id": bookID}).Decode(&book); err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return
	}

	utils.SendResponse(w, utils.Response{Message: "Book found", Status: true, Data: book}, http.StatusOK)
}

// GET /book/state/{bookId}
func (h *BookHandler) GetBookState(w http.ResponseWriter, r *http.Request) {
	bookID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bookId"])
	if err != nil {
		utils.JSONError(w, "Invalid book id", http.StatusNotAcceptable)
		return
	}

	state, err := h.StateStore.Get(r.Context(), bookID)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	utils.SendResponse(w, utils.Response{Message: "Book state found", Status: true, Data: state}, http.StatusOK)
}
