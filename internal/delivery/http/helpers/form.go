package helpers

import (
	"encoding/json"
	"net/http"
)

// FormResult is the JSON body the appointment form script reads.
// Success and Message keep the form contract; ConfirmationSent and InviteID are additive.
// InviteID is empty when the invite could not be stored.
// swagger:model FormResult
type FormResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ConfirmationSent bool   `json:"confirmationSent"`
	InviteID         string `json:"inviteId"`
}

// WriteFormResult writes res as JSON with the given status.
func WriteFormResult(w http.ResponseWriter, statusCode int, res FormResult) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(res)
}
