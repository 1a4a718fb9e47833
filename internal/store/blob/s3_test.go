package blob

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
)

func TestEncodeTags_OmitsEmptyFields(t *testing.T) {
	got := encodeTags(Tags{CustomName: "standup", SenderUsername: "nate"})
	assert.Equal(t, "custom-name=standup&sender-username=nate", got)

	assert.Equal(t, "", encodeTags(Tags{}))
}

func TestDecodeTags_RoundTrip(t *testing.T) {
	in := Tags{
		CustomName:       "standup",
		SenderUsername:   "nate",
		SenderUserID:     "uid-1",
		ReceiverUsername: "nadia",
		ReceiverUserID:   "uid-2",
	}
	assert.Equal(t, in, decodeTags(toTagSet(in)))
}

func TestDecodeTags_UnknownKeysDropped(t *testing.T) {
	set := []types.Tag{
		{Key: aws.String("custom-name"), Value: aws.String("x")},
		{Key: aws.String("legacy-tag"), Value: aws.String("ignored")},
	}
	got := decodeTags(set)
	assert.Equal(t, Tags{CustomName: "x"}, got)
}
