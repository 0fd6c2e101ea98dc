package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/splitsmart/splitsmart/internal/auth"
	"github.com/splitsmart/splitsmart/internal/middleware"
	"github.com/splitsmart/splitsmart/internal/money"
	"github.com/splitsmart/splitsmart/internal/service"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	_, err := a.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			respondError(w, http.StatusConflict, "Username already in use.")
		case errors.Is(err, auth.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Registration successful. Please log in.",
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	token, user, err := a.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "Username not found.")
		case errors.Is(err, auth.ErrInvalidPassword):
			respondError(w, http.StatusUnauthorized, "Invalid password. Please try again.")
		default:
			respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"username": user.Name,
	})
}

func (a *API) handleCheckUser(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		respondError(w, http.StatusBadRequest, "username query parameter is required")
		return
	}

	exists, err := a.users.UserExists(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

type createGroupRequest struct {
	GroupName string   `json:"group_name"`
	Members   []string `json:"members"`
}

func (a *API) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GroupName == "" {
		respondError(w, http.StatusBadRequest, "Group name is required.")
		return
	}

	creator := middleware.GetUsername(r.Context())
	group, err := a.groupSvc.CreateGroup(r.Context(), creator, req.GroupName, req.Members)
	if err != nil {
		if errors.Is(err, service.ErrUnknownGroupMember) {
			respondError(w, http.StatusBadRequest, "One or more members do not exist.")
			return
		}
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		return
	}

	respondJSON(w, http.StatusCreated, toGroupResponse(group))
}

func (a *API) handleListGroups(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	groups, err := a.groupSvc.ListGroups(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := a.groupSvc.GetGroup(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondOperationError(w, err, "Invalid amount.")
		return
	}

	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

func (a *API) handleGetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := a.groupSvc.GetBalances(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondOperationError(w, err, "Invalid amount.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"balances": formatBalances(balances)})
}

// addExpenseRequest is the raw expense submission. Amount arrives as a
// decimal string and percentages parallel split_with, exactly like the
// original form fields; both are converted to a typed command before the
// ledger sees them.
type addExpenseRequest struct {
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	PaidBy      string    `json:"paid_by"`
	SplitWith   []string  `json:"split_with"`
	Percentages []float64 `json:"percentages"`
}

func (a *API) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Amount must be a positive number.")
		return
	}

	group, err := a.expenseSvc.AddExpense(r.Context(), service.AddExpenseCommand{
		GroupID:     mux.Vars(r)["id"],
		Description: req.Description,
		Amount:      amount,
		PaidBy:      req.PaidBy,
		SplitWith:   req.SplitWith,
		Weights:     req.Percentages,
	})
	if err != nil {
		respondOperationError(w, err, "Amount must be a positive number.")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Expense added successfully!",
		"group":   toGroupResponse(group),
	})
}

type settlePaymentRequest struct {
	Amount string `json:"payment_amount"`
}

func (a *API) handleSettlePayment(w http.ResponseWriter, r *http.Request) {
	var req settlePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Payment amount must be greater than zero")
		return
	}

	// The payer is always the authenticated user.
	group, err := a.settleSvc.SettlePayment(r.Context(), service.SettlePaymentCommand{
		GroupID: mux.Vars(r)["id"],
		Payer:   middleware.GetUsername(r.Context()),
		Amount:  amount,
	})
	if err != nil {
		respondOperationError(w, err, "Payment amount must be greater than zero")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Payment settled successfully!",
		"group":   toGroupResponse(group),
	})
}
