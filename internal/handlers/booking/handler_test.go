package booking_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tarmac/infras/otel/mocks"
	"tarmac/internal/handlers/booking"
)

func TestCreateBooking_RequestValidation(t *testing.T) {
	handler := booking.New(nil, mocks.NewOtel())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed json",
			body:     `{"slot_id": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing fields",
			body:     `{}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "invalid email",
			body:     `{"slot_id":"b3f1c8a2-0000-4000-8000-000000000001","candidate_id":"CAND-001","contact_email":"not-an-email"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "slot id is not a uuid",
			body:     `{"slot_id":"slot-1","candidate_id":"CAND-001","contact_email":"candidate@example.com"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.CreateBooking(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateBooking_ValidationErrorNamesWireField(t *testing.T) {
	handler := booking.New(nil, mocks.NewOtel())

	body := `{"slot_id":"b3f1c8a2-0000-4000-8000-000000000001","candidate_id":"CAND-001","contact_email":"nope"}`

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateBooking(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "contact_email")
}
