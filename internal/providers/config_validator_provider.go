package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"rwstats/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}

	if cv.conf.Database.Driver == "postgres" && cv.conf.Database.DSN == "" {
		return fmt.Errorf("invalid configuration: database.dsn is required for the postgres driver")
	}
	if cv.conf.Database.Driver == "file" && cv.conf.Database.FilePath == "" {
		return fmt.Errorf("invalid configuration: database.filePath is required for the file driver")
	}
	if cv.conf.Storage.MaxBytes <= 0 {
		return fmt.Errorf("invalid configuration: storage.maxBytes must be positive")
	}
	if cv.conf.Storage.ThresholdPercent <= 0 || cv.conf.Storage.ThresholdPercent > 100 {
		return fmt.Errorf("invalid configuration: storage.thresholdPercent must be in (0, 100]")
	}

	return nil
}
