//go:build !js_eval

package docmodel

// NewJSEvaluator returns nil unless built with the js_eval tag. A nil
// evaluator passed to WithEvaluator falls back to expr.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}
