package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTicketCode(t *testing.T) {
	assert.Equal(t, "TKT-202608-0001", FormatTicketCode(2026, time.August, 1))
	assert.Equal(t, "TKT-202601-0042", FormatTicketCode(2026, time.January, 42))
	// The sequence pads to four digits but is not truncated beyond that.
	assert.Equal(t, "TKT-202612-12345", FormatTicketCode(2026, time.December, 12345))
}
