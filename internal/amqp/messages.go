package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ModelTrainedMessage announces that a new model artifact has been written.
type ModelTrainedMessage struct {
	ModelPath string    `json:"model_path"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	MSE       *float64  `json:"mse,omitempty"` // nil when no rows were held out
	TrainRows int       `json:"train_rows"`
	TestRows  int       `json:"test_rows"`
	Timestamp time.Time `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *ModelTrainedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ModelTrainedMessageFromJSON creates a message from JSON bytes
func ModelTrainedMessageFromJSON(data []byte) (*ModelTrainedMessage, error) {
	var msg ModelTrainedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ModelPath == "" {
		return nil, errors.New("model_path is required")
	}
	return &msg, nil
}
