package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitsmart/splitsmart/internal/ledger"
	"github.com/splitsmart/splitsmart/internal/models"
	"github.com/splitsmart/splitsmart/internal/money"
	"github.com/splitsmart/splitsmart/internal/service"
	"github.com/splitsmart/splitsmart/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondOperationError maps core errors to HTTP responses. Validation
// errors get a specific user-facing message per kind; invariant
// violations are internal defects and are never reported as validation
// failures.
func respondOperationError(w http.ResponseWriter, err error, invalidAmountMessage string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount) || errors.Is(err, money.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, invalidAmountMessage)
	case errors.Is(err, ledger.ErrSplitMismatch):
		respondError(w, http.StatusBadRequest, "The number of split members and percentages do not match.")
	case errors.Is(err, ledger.ErrNoSplitMembers):
		respondError(w, http.StatusBadRequest, "Please select at least one member to split with.")
	case errors.Is(err, ledger.ErrUnknownPayer):
		respondError(w, http.StatusBadRequest, "Payer is not a member of this group.")
	case errors.Is(err, ledger.ErrUnknownParticipant):
		respondError(w, http.StatusBadRequest, "Split member is not part of this group.")
	case errors.Is(err, ledger.ErrInvalidWeights):
		respondError(w, http.StatusBadRequest, "Percentages must sum to a positive value.")
	case errors.Is(err, ledger.ErrNoOutstandingBalance):
		respondError(w, http.StatusBadRequest, "You have no outstanding balance to settle")
	case errors.Is(err, storage.ErrGroupNotFound):
		respondError(w, http.StatusNotFound, "Group not found.")
	case errors.Is(err, service.ErrTooManyConflicts):
		respondError(w, http.StatusConflict, "The group is busy, please try again.")
	case errors.Is(err, ledger.ErrInvariantViolation):
		respondError(w, http.StatusInternalServerError, "Internal error.")
	default:
		slog.Error("Unhandled operation error", "error", err)
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable.")
	}
}

// groupResponse is the JSON shape of a group. Amounts are rendered as
// decimal strings alongside raw cents.
type groupResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Members  []string           `json:"members"`
	Balances map[string]string  `json:"balances"`
	Expenses []expenseResponse  `json:"expenses"`
	Version  int64              `json:"version"`
}

type expenseResponse struct {
	Description string            `json:"description"`
	Amount      string            `json:"amount"`
	PaidBy      string            `json:"paid_by"`
	SplitAmong  map[string]string `json:"split_among"`
	CreatedAt   int64             `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	resp := groupResponse{
		ID:       g.ID,
		Name:     g.Name,
		Members:  g.Members,
		Balances: formatBalances(g.Balances),
		Expenses: make([]expenseResponse, 0, len(g.Expenses)),
		Version:  g.Version,
	}
	for _, e := range g.Expenses {
		shares := make(map[string]string, len(e.SplitAmong))
		for name, cents := range e.SplitAmong {
			shares[name] = cents.String()
		}
		resp.Expenses = append(resp.Expenses, expenseResponse{
			Description: e.Description,
			Amount:      e.Amount.String(),
			PaidBy:      e.PaidBy,
			SplitAmong:  shares,
			CreatedAt:   e.CreatedAt,
		})
	}
	return resp
}

func formatBalances(balances map[string]money.Cents) map[string]string {
	out := make(map[string]string, len(balances))
	for name, bal := range balances {
		out[name] = bal.String()
	}
	return out
}
