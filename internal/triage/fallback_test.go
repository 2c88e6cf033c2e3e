package triage

import (
	"strings"
	"testing"

	"github.com/casavoz/casavoz/internal/store"
)

func TestFallback_Rules(t *testing.T) {
	prop := store.Property{MonthlyRent: 8500, RentDueDay: 5}

	tests := []struct {
		name          string
		body          string
		wantCategory  Category
		wantAttention bool
		wantInMessage string
	}{
		{
			name:          "leak is urgent",
			body:          "hay una fuga de agua en el baño",
			wantCategory:  CategoryUrgent,
			wantAttention: true,
			wantInMessage: "emergencia",
		},
		{
			name:          "emergency keyword is urgent",
			body:          "EMERGENCIA en la cocina",
			wantCategory:  CategoryUrgent,
			wantAttention: true,
		},
		{
			name:          "rent question is payment",
			body:          "cuándo se vence mi renta",
			wantCategory:  CategoryPayment,
			wantAttention: false,
			wantInMessage: "8500",
		},
		{
			name:          "payment keyword is payment",
			body:          "quiero hacer mi PAGO",
			wantCategory:  CategoryPayment,
			wantAttention: false,
			wantInMessage: "día 5",
		},
		{
			name:          "urgent rule wins over payment rule",
			body:          "fuga de agua, no puedo hacer el pago",
			wantCategory:  CategoryUrgent,
			wantAttention: true,
		},
		{
			name:          "anything else is inquiry",
			body:          "hola, una pregunta sobre el contrato",
			wantCategory:  CategoryInquiry,
			wantAttention: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.body, prop)
			if got.Category != tt.wantCategory {
				t.Errorf("Fallback(%q).Category = %q, want %q", tt.body, got.Category, tt.wantCategory)
			}
			if got.NeedsAttention != tt.wantAttention {
				t.Errorf("Fallback(%q).NeedsAttention = %v, want %v", tt.body, got.NeedsAttention, tt.wantAttention)
			}
			if got.Message == "" {
				t.Errorf("Fallback(%q).Message is empty", tt.body)
			}
			if tt.wantInMessage != "" && !strings.Contains(got.Message, tt.wantInMessage) {
				t.Errorf("Fallback(%q).Message = %q, want it to contain %q", tt.body, got.Message, tt.wantInMessage)
			}
		})
	}
}

func TestFallback_Deterministic(t *testing.T) {
	prop := store.Property{MonthlyRent: 12000.50, RentDueDay: 1}
	body := "pregunta sobre la renta"

	first := Fallback(body, prop)
	for i := 0; i < 3; i++ {
		if got := Fallback(body, prop); got != first {
			t.Fatalf("Fallback is not deterministic: got %+v, want %+v", got, first)
		}
	}
}

func TestFallback_AmountFormatting(t *testing.T) {
	got := Fallback("pago", store.Property{MonthlyRent: 12000.50, RentDueDay: 15})
	if want := "Tu renta es $12000.5 MXN, vence el día 15."; got.Message != want {
		t.Errorf("payment reply = %q, want %q", got.Message, want)
	}
}
