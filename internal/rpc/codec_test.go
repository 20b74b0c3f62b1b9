package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_ProtoMessage(t *testing.T) {
	c := jsonCodec{}

	data, err := c.Marshal(wrapperspb.String("OK"))
	require.NoError(t, err)
	assert.JSONEq(t, `"OK"`, string(data))

	var out wrapperspb.StringValue
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, "OK", out.GetValue())
}

func TestCodec_PlainStruct(t *testing.T) {
	c := jsonCodec{}

	data, err := c.Marshal(&TermsRequest{Terms: "customerTerms"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"terms":"customerTerms"}`, string(data))

	var out TermsRequest
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, "customerTerms", out.Terms)
}

func TestCodec_EmptyProfileOmitted(t *testing.T) {
	data, err := jsonCodec{}.Marshal(&GetProfileResponse{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
