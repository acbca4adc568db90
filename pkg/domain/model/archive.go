package model

import (
	"encoding/gob"
	"fmt"
	"os"
)

func init() {
	// concrete predictor types crossing the archive boundary.
	gob.Register(&Logistic{})
	gob.Register(&Forest{})
}

// archive is the on-disk envelope of a trained model.
//
// The envelope records the concrete predictor type, so readers need not
// know in advance what kind of model a file holds.
type archive struct {
	Predictor Predictor
}

// WriteFile stores a predictor as a model archive at path.
func WriteFile(path string, p Predictor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(f).Encode(archive{Predictor: p}); err != nil {
		f.Close()
		return fmt.Errorf("cannot write model archive %s: %w", path, err)
	}

	return f.Close()
}

// Load reads a model archive from path.
func Load(path string) (Predictor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ar := archive{}
	if err := gob.NewDecoder(f).Decode(&ar); err != nil {
		return nil, fmt.Errorf("cannot read model archive %s: %w", path, err)
	}
	if ar.Predictor == nil {
		return nil, fmt.Errorf("model archive %s holds no predictor", path)
	}

	return ar.Predictor, nil
}
