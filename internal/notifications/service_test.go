package notifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEncodeRecipientsNilStoresEmptyArray(t *testing.T) {
	out, err := encodeRecipients(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestCreateRequestWithoutRecipientsIsBroadcast(t *testing.T) {
	var req CreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Maintenance","body":"Coupure ce soir"}`), &req))
	require.Nil(t, req.Recipients)

	out, err := encodeRecipients(req.Recipients)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(out), "stored row must match the recipients = '[]'::jsonb feed predicate")
}

func TestEncodeRecipientsMatchesAudiencePredicate(t *testing.T) {
	userID := uuid.New()

	out, err := encodeRecipients([]uuid.UUID{userID})

	require.NoError(t, err)
	assert.Contains(t, string(out), audienceArg(userID))

	var decoded []uuid.UUID
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []uuid.UUID{userID}, decoded)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(fmt.Errorf("create read status: %w", &pq.Error{Code: "23505"})))

	assert.False(t, isDuplicateKey(&pq.Error{Code: "23503"}))
	assert.False(t, isDuplicateKey(errors.New("connection reset by peer")))
	assert.False(t, isDuplicateKey(nil))
}
