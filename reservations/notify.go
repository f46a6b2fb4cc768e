package reservations

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"os"
	"time"

	"villapik/mailer"
	"villapik/residences"
	"villapik/settings"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
)

// Swapped out in tests.
var (
	Mail          mailer.Sender = mailer.NewSendgridSender()
	resolveName                 = residences.ResolveName
	fetchSettings               = settings.Fetch
)

func fromAddress() string {
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		return v
	}
	return "onboarding@villapik.com"
}

// SubmitReservation handles POST /api/send: one reservation request in,
// one notification email out. Nothing is persisted.
func SubmitReservation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var res Reservation
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := res.Validate(); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Resolve the display name from the live collection; a missing
	// document falls back to echoing the raw id.
	residenceName, ok := resolveName(ctx, res.ResidenceID)
	if !ok {
		residenceName = res.ResidenceID
	}

	// Best effort: a failed settings read substitutes defaults, it never
	// blocks the send.
	site := fetchSettings(ctx)

	msg := mailer.Message{
		FromName:  site.WebName,
		FromEmail: fromAddress(),
		ToEmail:   site.Email,
		ReplyTo:   res.Email,
		Subject:   fmt.Sprintf("New Reservation Request from %s", res.Name),
		Text:      reservationText(res, residenceName),
		HTML:      reservationHTML(res, residenceName),
	}

	id, err := Mail.Send(ctx, msg)
	if err != nil {
		log.Printf("Reservation send failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send reservation email")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"id": id})
}

// SubmitContact handles POST /api/contact, the generic contact form.
func SubmitContact(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Message == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and message are required")
		return
	}

	name := input.Name
	if name == "" {
		name = "Unknown"
	}

	to := os.Getenv("TO_EMAIL")
	if to == "" {
		to = fetchSettings(ctx).Email
	}

	msg := mailer.Message{
		FromName:  fetchSettings(ctx).WebName,
		FromEmail: fromAddress(),
		ToEmail:   to,
		ReplyTo:   input.Email,
		Subject:   fmt.Sprintf("New contact form from %s", name),
		Text: fmt.Sprintf("New message from your website:\n\nName: %s\nEmail: %s\n\nMessage:\n%s",
			name, input.Email, input.Message),
	}

	if _, err := Mail.Send(ctx, msg); err != nil {
		log.Printf("Contact send failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func reservationText(res Reservation, residenceName string) string {
	message := res.Message
	if message == "" {
		message = "-"
	}
	return fmt.Sprintf("New Reservation Request\n\nResidence: %s\nName: %s\nEmail: %s\nDate: %s\nTime: %s\n\nMessage:\n%s",
		residenceName, res.Name, res.Email, res.Date, res.Time, message)
}

func reservationHTML(res Reservation, residenceName string) string {
	message := res.Message
	if message == "" {
		message = "-"
	}
	return fmt.Sprintf(`
        <h2>New Reservation Request</h2>
        <p><strong>Residence:</strong> %s</p>
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Date:</strong> %s</p>
        <p><strong>Time:</strong> %s</p>
        <p><strong>Message:</strong></p>
        <p>%s</p>
      `,
		html.EscapeString(residenceName),
		html.EscapeString(res.Name),
		html.EscapeString(res.Email),
		html.EscapeString(res.Date),
		html.EscapeString(res.Time),
		html.EscapeString(message),
	)
}
