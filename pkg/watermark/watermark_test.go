package watermark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ccproc/pkg/watermark"
)

func TestDoneTillAdvancesInOrder(t *testing.T) {
	m := watermark.New()
	m.Begin(1)
	m.Begin(2)
	m.Begin(3)

	m.Done(1)
	assert.Equal(t, uint64(1), m.DoneTill())

	m.Done(3)
	assert.Equal(t, uint64(1), m.DoneTill(), "2 is still open, so the mark cannot pass it")

	m.Done(2)
	assert.Equal(t, uint64(3), m.DoneTill(), "closing 2 lets the mark jump past the already-done 3")
}

func TestDoneTillStaysZeroUntilFirstDone(t *testing.T) {
	m := watermark.New()
	m.Begin(5)
	assert.Equal(t, uint64(0), m.DoneTill())
}
