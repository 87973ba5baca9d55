package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeNowKST(t *testing.T) {
	now := TimeNowKST()
	assert.Equal(t, "Asia/Seoul", now.Location().String())

	_, offset := now.Zone()
	assert.Equal(t, 9*60*60, offset)
}
