package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonthIndex = "month_index"
	FieldPredicted  = "predicted_expense"
	FieldSlope      = "slope"
	FieldIntercept  = "intercept"
	FieldMSE        = "mse"
	FieldTrainRows  = "train_rows"
	FieldTestRows   = "test_rows"
	FieldModelPath  = "model_path"
	FieldSource     = "data_source"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentTrainer   = "trainer"
	ComponentImporter  = "importer"
	ComponentPredictor = "predictor"
	ComponentArtifact  = "artifact"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
)

// Operations defines standard operation names
const (
	OpTrain    = "train"
	OpPredict  = "predict"
	OpSave     = "save"
	OpLoad     = "load"
	OpReload   = "reload"
	OpPublish  = "publish"
	OpParse    = "parse"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithModel adds the fitted line parameters
func (f LogFields) WithModel(slope, intercept float64) LogFields {
	f[FieldSlope] = slope
	f[FieldIntercept] = intercept
	return f
}

// WithEvaluation adds split sizes and the held-out error
func (f LogFields) WithEvaluation(mse float64, trainRows, testRows int) LogFields {
	f[FieldMSE] = mse
	f[FieldTrainRows] = trainRows
	f[FieldTestRows] = testRows
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
