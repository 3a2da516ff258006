package validator_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docschema/internal/validator"
)

func TestExpressionEngine_Evaluate(t *testing.T) {
	e := validator.NewExpressionEngine()

	ok, err := e.Evaluate(`len(value) >= 3 && field == "code"`, "code", "ABC")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Evaluate(`DIGITS(value) >= 10`, "phone", "555-0100")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpressionEngine_CompileErrors(t *testing.T) {
	e := validator.NewExpressionEngine()

	assert.Error(t, e.Compile(""))
	assert.Error(t, e.Compile("value >"))
	assert.NoError(t, e.Compile(`value != nil`))
}

func TestExpressionEngine_RuntimeError(t *testing.T) {
	e := validator.NewExpressionEngine()

	_, err := e.Evaluate(`NUMBER(value) > 1`, "total", "abc")
	assert.Error(t, err)
}

func TestExpressionEngine_ConcurrentUse(t *testing.T) {
	e := validator.NewExpressionEngine()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := e.Evaluate(`NUMBER(value) > 1`, "total", "5")
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
