package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveDocument(t *testing.T) {
	successBefore := testutil.ToFloat64(DocumentsTotal.WithLabelValues("outline", "success"))
	errorBefore := testutil.ToFloat64(DocumentsTotal.WithLabelValues("outline", "error"))

	ObserveDocument("outline", 0.2, nil)
	ObserveDocument("outline", 0.1, errors.New("boom"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(DocumentsTotal.WithLabelValues("outline", "success")))
	assert.Equal(t, errorBefore+1, testutil.ToFloat64(DocumentsTotal.WithLabelValues("outline", "error")))
}
