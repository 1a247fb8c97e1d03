package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/renterra/backoffice/modules/approval/domain/changerequest"
)

func TestWriteSubmitAccepted_Shape(t *testing.T) {
	req := &changerequest.ChangeRequest{ID: uuid.New(), Status: changerequest.StatusPending}

	rec := httptest.NewRecorder()
	writeSubmitAccepted(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["executed"])
	require.Equal(t, req.ID.String(), body["request_id"])
	require.Equal(t, "pending", body["status"])
	require.NotContains(t, body, "request")
}

func TestWriteReviewError_StatusCodes(t *testing.T) {
	c := &ChangeRequestAPIController{}
	cases := []struct {
		err  error
		want int
	}{
		{changerequest.ErrSelfReview, http.StatusUnprocessableEntity},
		{changerequest.ErrAlreadyReviewed, http.StatusConflict},
		{changerequest.ErrNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/change-requests/x/approve", nil)
		c.writeReviewError(rec, r, tc.err)
		require.Equal(t, tc.want, rec.Code, tc.err)
	}
}
