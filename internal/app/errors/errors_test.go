package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineError_Class(t *testing.T) {
	tests := []struct {
		name string
		err  *PipelineError
		want Class
	}{
		{"validation", Validation("No audio file provided"), ClassValidation},
		{"decode", Decode(io.ErrUnexpectedEOF, "unreadable container"), ClassProcessing},
		{"preprocess", Preprocess(StepResample, nil, "bad rate"), ClassProcessing},
		{"inference", Inference(nil, "empty transcript"), ClassProcessing},
		{"io", IO(StepStage, nil, "disk full"), ClassProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Class())
		})
	}
}

func TestPipelineError_IsAndUnwrap(t *testing.T) {
	err := Preprocess(StepEncode, io.ErrShortWrite, "write wav")
	wrapped := fmt.Errorf("normalize: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrPreprocess))
	assert.True(t, stderrors.Is(wrapped, &PipelineError{Kind: KindPreprocess, Step: StepEncode}))
	assert.False(t, stderrors.Is(wrapped, &PipelineError{Kind: KindPreprocess, Step: StepResample}))
	assert.False(t, stderrors.Is(wrapped, ErrDecode))
	assert.True(t, stderrors.Is(wrapped, io.ErrShortWrite))

	pe, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, StepEncode, pe.Step)
	assert.Equal(t, KindPreprocess, KindOf(wrapped))
}

func TestPipelineError_Messages(t *testing.T) {
	v := Validation("No audio file provided")
	assert.Equal(t, "No audio file provided", v.Public())
	assert.Equal(t, "receive: No audio file provided", v.Error())

	d := Decode(io.ErrUnexpectedEOF, "unreadable container")
	assert.Equal(t, "decode: unreadable container: unexpected EOF", d.Error())
	assert.Equal(t, d.Error(), d.Public())
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil, KindInference, StepInference))

	raw := stderrors.New("boom")
	pe := Classify(raw, KindInference, StepInference)
	assert.Equal(t, KindInference, pe.Kind)
	assert.True(t, stderrors.Is(pe, raw))

	typed := Decode(nil, "bad header")
	assert.Same(t, typed, Classify(typed, KindInference, StepInference))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validation("x")))
	assert.False(t, IsValidation(IO(StepCleanup, nil, "x")))
	assert.False(t, IsValidation(stderrors.New("plain")))
	assert.False(t, IsValidation(nil))
}
