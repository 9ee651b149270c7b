package classifier

import (
	"context"
	"errors"
)

// ErrUnavailable: el modelo no está configurado/cargado en este servidor.
var ErrUnavailable = errors.New("model not available on server")

// Image es lo que recibe el modelo: path relativo + bytes del archivo.
type Image struct {
	Path        string
	ContentType string
	Data        []byte
}

// Prediction es la salida opaca del modelo.
type Prediction struct {
	Label        string
	Confidence   float64
	Advice       string
	HealthStatus string
}

type Predictor interface {
	Predict(ctx context.Context, img Image) (Prediction, error)
}
