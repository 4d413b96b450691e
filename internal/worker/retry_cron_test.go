package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRedrive(t *testing.T) {
	assert.True(t, shouldRedrive(DLQEntry{JobType: JobExportacion, Transport: true}))
	assert.False(t, shouldRedrive(DLQEntry{JobType: JobExportacion, Transport: false}), "not found or invalid filter fails again")
	assert.False(t, shouldRedrive(DLQEntry{JobType: JobExportacion, Transport: true, Redrives: MaxRedrives}))
	assert.False(t, shouldRedrive(DLQEntry{Transport: true}), "unparsable job envelope")
}
