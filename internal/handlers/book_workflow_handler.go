package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"book-sharing-service/internal/constants"
	"book-sharing-service/internal/lending"
	"book-sharing-service/internal/middleware"
	"book-sharing-service/internal/models"
	"book-sharing-service/internal/store"
	"book-sharing-service/internal/utils"
)

// BookWorkflowHandler exposes the lending transitions over HTTP. All routes
// require a bearer token; the acting user always comes from the token, the
// optional {userId} path segment names the user the action concerns.
type BookWorkflowHandler struct {
	Workflow    WorkflowExecutor
	AuditLogger utils.Logger
}

type WorkflowExecutor interface {
	Execute(ctx context.Context, ev lending.Event) (*models.BookState, error)
}

func NewBookWorkflowHandler(wf WorkflowExecutor, logger utils.Logger) *BookWorkflowHandler {
	return &BookWorkflowHandler{Workflow: wf, AuditLogger: logger}
}

// PUT /book/request/{bookId}
func (h *BookWorkflowHandler) RequestBook(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, lending.EventRequest, constants.RequestBook, "Book request created")
}

// PUT /book/request/approve/{bookId}/{userId}
func (h *BookWorkflowHandler) ApproveBookRequest(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, lending.EventApprove, constants.ApproveRequest, "Book request approved")
}

// PUT /book/request/reject/{bookId}/{userId}
func (h *BookWorkflowHandler) RejectBookRequest(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, lending.EventReject, constants.RejectRequest, "Book request rejected")
}

// PUT /book/return/{bookId} and /book/return/{bookId}/{userId}
func (h *BookWorkflowHandler) MarkBookAsReturned(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, lending.EventReturn, constants.ReturnBook, "Book marked as returned")
}

// PUT /book/lost/{bookId} and /book/lost/{bookId}/{userId}
func (h *BookWorkflowHandler) MarkBookAsLost(w http.ResponseWriter, r *http.Request) {
	h.execute(w, r, lending.EventLost, constants.MarkLost, "Book marked as lost")
}

func (h *BookWorkflowHandler) execute(w http.ResponseWriter, r *http.Request, kind lending.EventKind, action, successMsg string) {
	actor, ok := currentUserID(r)
	if !ok {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookID, err := primitive.ObjectIDFromHex(vars["bookId"])
	if err != nil {
		utils.JSONError(w, "Invalid book id", http.StatusNotAcceptable)
		return
	}

	var target primitive.ObjectID
	if hex, present := vars["userId"]; present && hex != "" {
		target, err = primitive.ObjectIDFromHex(hex)
		if err != nil {
			utils.JSONError(w, "Invalid user id", http.StatusNotAcceptable)
			return
		}
	}

	ev := lending.Event{Kind: kind, BookID: bookID, Actor: actor, Target: target}

	state, err := h.Workflow.Execute(r.Context(), ev)
	if err != nil {
		respondWorkflowError(w, err)
		return
	}

	h.AuditLogger.Log(r.Context(), models.BookStateEntity, action, actor.Hex(), state)
	if kind == lending.EventApprove && state.BorrowedBy != nil {
		utils.AppendToEmailLog(r.Context(), state.BorrowedBy.Hex(), bookID.Hex())
	}

	utils.SendResponse(w, utils.Response{Message: successMsg, Status: true, Data: state}, http.StatusOK)
}

func respondWorkflowError(w http.ResponseWriter, err error) {
	var lerr *lending.Error
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, "Book state not found", http.StatusNotFound)
	case errors.As(err, &lerr):
		code := http.StatusBadRequest
		if lerr.Kind == lending.KindForbidden {
			code = http.StatusForbidden
		}
		utils.JSONError(w, lerr.Reason, code)
	default:
		utils.JSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
