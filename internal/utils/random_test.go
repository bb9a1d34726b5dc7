package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

func TestGenerateRandomOTP(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		otp, err := GenerateRandomOTP()
		require.NoError(t, err)
		assert.Regexp(t, re, otp)
	}
}

func TestGenerateRandomLetter(t *testing.T) {
	for i := 0; i < 50; i++ {
		l := GenerateRandomLetter(42)

		require.NotNil(t, l.CreatedBy)
		assert.EqualValues(t, 42, *l.CreatedBy)
		assert.NotEmpty(t, l.Subject)
		assert.Regexp(t, `^\d{3}/\d{3}/DISNAKER/\d{4}$`, l.LetterNumber)

		switch l.Type {
		case domain.LetterIncoming:
			assert.Contains(t, incomingStatuses, l.Status)
			assert.Equal(t, "Dinas Tenaga Kerja Kabupaten Asahan", l.Recipient)
		case domain.LetterOutgoing:
			assert.Contains(t, outgoingStatuses, l.Status)
			assert.Equal(t, "Dinas Tenaga Kerja Kabupaten Asahan", l.Sender)
		default:
			t.Fatalf("unexpected type %q", l.Type)
		}
	}
}

func TestGenerateUsernameFromName(t *testing.T) {
	assert.Regexp(t, `^rina\.susanti\d{1,3}$`, GenerateUsernameFromName("Rina Susanti"))
}
