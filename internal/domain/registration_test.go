package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRegistrationFields(t *testing.T) {
	tests := []struct {
		name      string
		kind      ParticipantKind
		note      string
		headcount int
		wantErr   bool
	}{
		{name: "individual ok", kind: KindIndividual},
		{name: "individual max note", kind: KindIndividual, note: strings.Repeat("x", 1500)},
		{name: "individual note too long", kind: KindIndividual, note: strings.Repeat("x", 1501), wantErr: true},
		{name: "individual with headcount", kind: KindIndividual, headcount: 3, wantErr: true},
		{name: "company ok", kind: KindCompany, headcount: 1},
		{name: "company max note", kind: KindCompany, note: strings.Repeat("x", 5000), headcount: 10},
		{name: "company note too long", kind: KindCompany, note: strings.Repeat("x", 5001), headcount: 10, wantErr: true},
		{name: "company zero headcount", kind: KindCompany, headcount: 0, wantErr: true},
		{name: "company negative headcount", kind: KindCompany, headcount: -1, wantErr: true},
		{name: "unknown kind", kind: ParticipantKind("robot"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistrationFields(tt.kind, tt.note, tt.headcount)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewRegistration(t *testing.T) {
	reg, err := NewRegistration("ev-1", "p-1", KindCompany, 2, "invoice ref 42", 15, "billing@example.com", testNow)
	require.NoError(t, err)
	require.Equal(t, "ev-1", reg.EventID)
	require.Equal(t, "p-1", reg.ParticipantID)
	require.Equal(t, 2, reg.PaymentMethodID)
	require.Equal(t, 15, reg.Headcount)
	require.Equal(t, "invoice ref 42", reg.Note)

	_, err = NewRegistration("ev-1", "p-1", KindCompany, 2, "", 0, "", testNow)
	require.ErrorIs(t, err, ErrInvalidInput)
}
