package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"villapik/globals"
	"villapik/models"
	"villapik/rdx"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
)

// Overridable in tests.
var (
	lineAuthorizeURL = "https://access.line.me/oauth2/v2.1/authorize"
	lineTokenURL     = "https://api.line.me/oauth2/v2.1/token"
	lineProfileURL   = "https://api.line.me/v2/profile"

	stateStore  = rdx.SetWithExpiry
	stateLookup = rdx.RdxGet
	stateDelete = rdx.RdxDel
)

const lineStateTTL = 10 * time.Minute

type lineProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

func baseURL() string {
	return globals.Env("BASE_URL", "http://localhost:8080")
}

func redirectURI() string {
	return baseURL() + "/api/line/callback"
}

// StartLineConnect issues a single-use anti-forgery state token and returns
// the provider authorize URL. The token lives in Redis keyed to the admin
// user; the callback must present it exactly.
func StartLineConnect(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	state := utils.GenerateRandomString(24)
	if err := stateStore("line:state:"+state, userID, lineStateTTL); err != nil {
		http.Error(w, "Failed to store state", http.StatusInternalServerError)
		return
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", os.Getenv("LINE_CHANNEL_ID"))
	q.Set("redirect_uri", redirectURI())
	q.Set("state", state)
	q.Set("scope", "profile openid")

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"url":   lineAuthorizeURL + "?" + q.Encode(),
		"state": state,
	})
}

// LineCallback completes the OAuth dance: verify state, exchange the code,
// fetch the profile, persist the record, then hand a self-closing page back
// to the popup. The page always posts a message to the opener, success or
// failure, so the admin UI can tell "not connected" from "attempt failed".
func LineCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		writeLineResultPage(w, "", errCode)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		writeLineResultPage(w, "", "invalid_request")
		return
	}

	stateKey := "line:state:" + state
	userID, err := stateLookup(stateKey)
	if err != nil || userID == "" {
		writeLineResultPage(w, "", "invalid_state")
		return
	}
	// Single use
	stateDelete(stateKey)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	profile, err := exchangeAndFetchProfile(ctx, code)
	if err != nil {
		log.Printf("LINE OAuth error: %v", err)
		writeLineResultPage(w, "", "server_error")
		return
	}

	account := models.ConnectedAccount{
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PictureURL,
		ConnectedAt: time.Now().Format(time.RFC3339),
	}
	if err := saveConnectedAccount(ctx, userID, "line", account); err != nil {
		log.Printf("Failed to save LINE account: %v", err)
		writeLineResultPage(w, "", "server_error")
		return
	}

	profileJSON, _ := json.Marshal(profile)
	writeLineResultPage(w, string(profileJSON), "")
}

func exchangeAndFetchProfile(ctx context.Context, code string) (*lineProfile, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI())
	form.Set("client_id", os.Getenv("LINE_CHANNEL_ID"))
	form.Set("client_secret", os.Getenv("LINE_CHANNEL_SECRET"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lineTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: status %d: %s", resp.StatusCode, body)
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenData); err != nil {
		return nil, err
	}

	profReq, err := http.NewRequestWithContext(ctx, http.MethodGet, lineProfileURL, nil)
	if err != nil {
		return nil, err
	}
	profReq.Header.Set("Authorization", "Bearer "+tokenData.AccessToken)

	profResp, err := http.DefaultClient.Do(profReq)
	if err != nil {
		return nil, err
	}
	defer profResp.Body.Close()
	if profResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile fetch failed: status %d", profResp.StatusCode)
	}

	var profile lineProfile
	if err := json.NewDecoder(profResp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// writeLineResultPage renders the self-closing popup page. With profileJSON
// set it posts LINE_LOGIN_SUCCESS; with errCode set it posts
// LINE_LOGIN_ERROR. When no opener exists it falls back to redirecting the
// whole window to /admin.
//
// The payload is built with json.Marshal, which escapes angle brackets, so
// a provider-supplied error code cannot break out of the script block.
func writeLineResultPage(w http.ResponseWriter, profileJSON, errCode string) {
	var payload []byte
	var fallback string
	if errCode != "" {
		payload, _ = json.Marshal(map[string]string{
			"type":  "LINE_LOGIN_ERROR",
			"error": errCode,
		})
		fallback = "/admin?line_error=" + url.QueryEscape(errCode)
	} else {
		payload, _ = json.Marshal(struct {
			Type    string          `json:"type"`
			Profile json.RawMessage `json:"profile"`
		}{"LINE_LOGIN_SUCCESS", json.RawMessage(profileJSON)})
		fallback = "/admin?line_success=true"
	}
	message := string(payload)

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
  <head>
    <title>LINE Login</title>
  </head>
  <body>
    <script>
      if (window.opener) {
        window.opener.postMessage(%s, window.location.origin);
        window.close();
      } else {
        window.location.href = '%s';
      }
    </script>
    <p>Connecting LINE account... This window will close automatically.</p>
  </body>
</html>
`, message, fallback)
}
