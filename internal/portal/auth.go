package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

// loginPayload represents the JSON body of the credential step
type loginPayload struct {
	RType       string `json:"rType"`
	LoginType   string `json:"loginType"`
	UserID      string `json:"userUid"`
	Password    string `json:"userPwd"`
	Language    string `json:"langFg"`
	LoginGubun  string `json:"loginGubun"`
	LoginSystem string `json:"loginSystem"`
}

// Authenticate runs the three-step login handshake (credentials, OTP trigger, OTP check) against the portal.
// It starts with an empty cookie jar and stops at the first failing step.
// The returned session is guaranteed to carry the configured marker cookie.
func (client *Client) Authenticate(ctx context.Context, userID, password, otp string) (*Session, error) {
	client.mtx.Lock()
	defer client.mtx.Unlock()

	client.restore(nil)
	logger := log.With().Str("user_id", userID).Logger()

	// Step 1: submit the credentials
	payload, err := json.Marshal(loginPayload{
		RType:       "3tier",
		LoginType:   "3tier",
		UserID:      userID,
		Password:    password,
		Language:    "K",
		LoginGubun:  "O",
		LoginSystem: "oasis",
	})
	if err != nil {
		return nil, err
	}
	status, _, err := client.post(ctx, client.URL(LoginPath), "application/json", payload)
	if err != nil {
		logger.Warn().Err(err).Int("step", 1).Msg("could not reach the portal login endpoint")
		return nil, &AuthError{Kind: TransportFailure, Step: 1, Cause: err}
	}
	if status != http.StatusOK {
		logger.Warn().Int("step", 1).Int("status", status).Msg("the portal rejected the credentials")
		return nil, &AuthError{Kind: CredentialsRejected, Step: 1, Status: status}
	}

	// Step 2: let the portal send out the OTP
	form := url.Values{"userId": {userID}}
	status, _, err = client.post(ctx, client.URL(OTPTriggerPath), "application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		logger.Warn().Err(err).Int("step", 2).Msg("could not reach the portal OTP trigger endpoint")
		return nil, &AuthError{Kind: TransportFailure, Step: 2, Cause: err}
	}
	if status != http.StatusOK {
		logger.Warn().Int("step", 2).Int("status", status).Msg("the portal could not trigger the OTP")
		return nil, &AuthError{Kind: OTPTriggerFailed, Step: 2, Status: status}
	}

	// Step 3: verify the OTP; only the marker cookie decides, whatever the status
	form = url.Values{"userCode": {otp}}
	status, _, err = client.post(ctx, client.URL(OTPCheckPath), "application/x-www-form-urlencoded", []byte(form.Encode()))
	if err != nil {
		logger.Warn().Err(err).Int("step", 3).Msg("could not reach the portal OTP check endpoint")
		return nil, &AuthError{Kind: TransportFailure, Step: 3, Cause: err}
	}
	session := client.session()
	if !session.Valid(client.config.MarkerCookie) {
		logger.Warn().Int("step", 3).Int("status", status).Msg("the portal did not accept the OTP")
		return nil, &AuthError{Kind: InvalidOTPOrSession, Step: 3, Status: status}
	}

	logger.Info().Int("cookies", len(session.Cookies)).Msg("authenticated against the portal")
	return session, nil
}
