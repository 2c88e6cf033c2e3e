package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioNotifier sends WhatsApp messages through the Twilio Messages API.
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	apiBase    string
	client     *http.Client
}

func NewTwilioNotifier(accountSID, authToken, from string) *TwilioNotifier {
	return &TwilioNotifier{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		apiBase:    "https://api.twilio.com",
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

// WithAPIBase returns a copy pointed at a custom API base (used in tests).
func (t *TwilioNotifier) WithAPIBase(base string) *TwilioNotifier {
	t.apiBase = strings.TrimRight(base, "/")
	return t
}

func (t *TwilioNotifier) Name() string { return "twilio" }

func (t *TwilioNotifier) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", whatsappAddress(t.from))
	form.Set("To", whatsappAddress(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.apiBase, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.accountSID, t.authToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("twilio: send to %s: HTTP %d: %s", to, resp.StatusCode, string(errBody))
	}
	return nil
}

// whatsappAddress ensures the Twilio "whatsapp:" channel tag is present.
func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
