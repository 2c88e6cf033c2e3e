package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTwilioSend(t *testing.T) {
	var gotForm map[string]string
	var gotPath, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, _, _ = r.BasicAuth()
		r.ParseForm()
		gotForm = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM123"}`))
	}))
	defer srv.Close()

	n := NewTwilioNotifier("AC123", "secret", "+14155238886").WithAPIBase(srv.URL)
	if err := n.Send(context.Background(), "+525599887766", "🚨 aviso"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC123" {
		t.Errorf("basic auth user = %q, want the account SID", gotUser)
	}
	if gotForm["From"] != "whatsapp:+14155238886" {
		t.Errorf("From = %q, want whatsapp-tagged sender", gotForm["From"])
	}
	if gotForm["To"] != "whatsapp:+525599887766" {
		t.Errorf("To = %q, want whatsapp-tagged recipient", gotForm["To"])
	}
	if gotForm["Body"] != "🚨 aviso" {
		t.Errorf("Body = %q", gotForm["Body"])
	}
}

func TestTwilioSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 21211, "message": "invalid To"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTwilioNotifier("AC123", "secret", "+14155238886").WithAPIBase(srv.URL)
	if err := n.Send(context.Background(), "bogus", "x"); err == nil {
		t.Fatal("Send succeeded, want error on 400")
	}
}

func TestWhatsappAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+525599887766", "whatsapp:+525599887766"},
		{"whatsapp:+525599887766", "whatsapp:+525599887766"},
	}
	for _, tt := range tests {
		if got := whatsappAddress(tt.in); got != tt.want {
			t.Errorf("whatsappAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
