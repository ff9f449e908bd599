package wcollama_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watercrawl/wcollama"
)

func TestExtractionRequest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts content", func(t *testing.T) {
		t.Parallel()

		req := &wcollama.ExtractionRequest{PageContent: "<h1>Hello</h1>"}

		assert.NoError(t, req.Validate())
	})

	t.Run("rejects nil request", func(t *testing.T) {
		t.Parallel()

		var req *wcollama.ExtractionRequest

		err := req.Validate()

		require.Error(t, err)
		assert.Equal(t, wcollama.EINVALID, wcollama.ErrorCode(err))
	})

	t.Run("rejects blank content", func(t *testing.T) {
		t.Parallel()

		req := &wcollama.ExtractionRequest{PageContent: "  \n\t"}

		err := req.Validate()

		require.Error(t, err)
		assert.Equal(t, wcollama.EINVALID, wcollama.ErrorCode(err))
		assert.Equal(t, "page content required", wcollama.ErrorMessage(err))
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		req := &wcollama.ExtractionRequest{PageContent: "x", Format: "xml"}

		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown content type", func(t *testing.T) {
		t.Parallel()

		req := &wcollama.ExtractionRequest{PageContent: "x", ContentType: "pdf"}

		err := req.Validate()

		assert.Equal(t, wcollama.EINVALID, wcollama.ErrorCode(err))
		assert.Equal(t, `unsupported content type "pdf"`, wcollama.ErrorMessage(err))
	})

	t.Run("rejects schema with text format", func(t *testing.T) {
		t.Parallel()

		req := &wcollama.ExtractionRequest{
			PageContent: "x",
			Format:      wcollama.FormatText,
			Schema:      map[string]any{"type": "object"},
		}

		assert.Error(t, req.Validate())
	})
}

func TestExtractionRequest_WantsJSON(t *testing.T) {
	t.Parallel()

	assert.False(t, (&wcollama.ExtractionRequest{}).WantsJSON())
	assert.True(t, (&wcollama.ExtractionRequest{Format: wcollama.FormatJSON}).WantsJSON())
	assert.True(t, (&wcollama.ExtractionRequest{Schema: map[string]any{}}).WantsJSON())
}

func TestExtractionResult_Fail(t *testing.T) {
	t.Parallel()

	t.Run("copies code and message", func(t *testing.T) {
		t.Parallel()

		res := &wcollama.ExtractionResult{Data: "stale", Success: true}

		res.Fail(wcollama.Errorf(wcollama.ETIMEOUT, "timeout"))

		assert.False(t, res.Success)
		assert.Nil(t, res.Data)
		assert.Equal(t, "timeout", res.ErrorMessage)
		assert.Equal(t, wcollama.ETIMEOUT, res.ErrorCode)
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		t.Parallel()

		res := (&wcollama.ExtractionResult{}).Fail(errors.New("boom"))

		assert.Equal(t, wcollama.EINTERNAL, res.ErrorCode)
		assert.NotEmpty(t, res.ErrorMessage)
	})
}
