package app

import (
	"github.com/spf13/afero"

	"azimuth-installer/internal/adapters"
	"azimuth-installer/internal/ports"
)

type Service struct {
	Fs       afero.Fs
	Prompter ports.PrompterPort
	// Storage, when set, replaces the backend selected by the request.
	Storage ports.StoragePort
}

func NewService() Service {
	return Service{
		Fs:       afero.NewOsFs(),
		Prompter: adapters.NewSurveyPrompterAdapter(),
	}
}
