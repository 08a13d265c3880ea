// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"fra-workers/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/activities.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "registry-updater: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "registry file")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("validation failed:\n%w", err)
	}
	fmt.Printf("registry ok: %d activities\n", len(reg.Activities))
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "registry file")
	workflow := fs.String("workflow", "", "only activities used by this workflow")
	fs.Parse(args)

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return err
	}

	activities := append([]registry.Activity(nil), reg.Activities...)
	sort.Slice(activities, func(i, j int) bool { return activities[i].TaskType < activities[j].TaskType })
	for _, a := range activities {
		if *workflow != "" && !a.UsedBy(*workflow) {
			continue
		}
		fmt.Printf("%-32s %-12s %-8s %s\n", a.TaskType, a.ImplementationStatus, a.Timeout, a.Category)
	}
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", defaultRegistryPath, "registry file")
	id := fs.String("id", "", "activity id")
	field := fs.String("field", "", "status, version, timeout or retries")
	value := fs.String("value", "", "new value")
	fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return err
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity %s not found", *id)
	}

	switch *field {
	case "status":
		if !registry.Statuses[*value] {
			return fmt.Errorf("unknown status %q", *value)
		}
		activity.ImplementationStatus = *value
	case "version":
		activity.Version = *value
	case "timeout":
		activity.Timeout = *value
		if _, err := activity.TimeoutDuration(); err != nil {
			return err
		}
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update would leave the registry invalid:\n%w", err)
	}
	reg.LastUpdated = time.Now().Format("2006-01-02")

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	if err := os.WriteFile(*path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	fmt.Printf("updated %s: %s = %s\n", *id, *field, *value)
	return nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  validate  Check ids, task types, statuses, timeouts and JSON Schemas
  list      Print the registered activities
  update    Change the status, version, timeout or retries of an activity

Examples:
  registry-updater validate
  registry-updater list -workflow fra-claim-assessment
  registry-updater update -id notify-assessment-outcome -field status -value verified

The registry is compiled into the workers; rebuild after updating it.`)
}
