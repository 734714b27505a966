package helper

import (
	"lomaro_whatsapp/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplyButtonsOnlyForYesNoStates(t *testing.T) {
	assert.Equal(t, []string{"Yes, add more", "No, checkout"}, ReplyButtons(model.StateAddMore))
	assert.Equal(t, []string{"Yes, confirm", "No, cancel"}, ReplyButtons(model.StateConfirmOrder))

	// Free-form states keep the plain text prompt.
	assert.Nil(t, ReplyButtons(model.StateIdle))
	assert.Nil(t, ReplyButtons(model.StatePickQty))
	assert.Nil(t, ReplyButtons(model.StateAskName))
}
