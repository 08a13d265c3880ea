// pkg/registry/validate.go
package registry

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Implementation statuses accepted in the registry.
var Statuses = map[string]bool{
	"planned":     true,
	"in-progress": true,
	"implemented": true,
	"verified":    true,
}

// Validate reports every problem found in the registry.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	var errs []error
	ids := make(map[string]bool, len(r.Activities))
	taskTypes := make(map[string]bool, len(r.Activities))
	for _, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, errors.New("activity missing id"))
			continue
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id", a.ID))
		}
		ids[a.ID] = true

		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("%s: missing taskType", a.ID))
		} else if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("%s: taskType %s registered twice", a.ID, a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if a.DisplayName == "" || a.Category == "" {
			errs = append(errs, fmt.Errorf("%s: displayName and category are required", a.ID))
		}
		if !Statuses[a.ImplementationStatus] {
			errs = append(errs, fmt.Errorf("%s: unknown implementationStatus %q", a.ID, a.ImplementationStatus))
		}
		if _, err := a.TimeoutDuration(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.ID, err))
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("%s: retries must not be negative", a.ID))
		}
		for name, schema := range map[string]map[string]interface{}{"inputSchema": a.InputSchema, "outputSchema": a.OutputSchema} {
			if schema == nil {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", a.ID, name, err))
			}
		}
	}
	return errors.Join(errs...)
}
