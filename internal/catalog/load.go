// Package catalog loads train seat catalogs from CUE documents.
//
// A catalog declares trains, their coaches, and the currently free seats:
//
//	train: T3: coach: {
//		A: {seats: 60, available: {from: 11, to: 60}}
//		B: {seats: 40, available: "all"}
//	}
//
// Loaded documents are unified with the embedded schema so shape errors
// carry CUE source positions, then decoded and checked semantically.
package catalog

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/berthd/berth/internal/rail"
)

//go:embed schema.cue
var schemaCUE string

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Catalog is a fully decoded seat catalog.
type Catalog struct {
	// Date is the catalog's travel date label, when declared.
	Date rail.TravelDate

	// Trains is sorted by train id.
	Trains []rail.Train

	// FileCount is the number of CUE files the catalog was read from.
	FileCount int
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load loads a catalog from path, which may be a single .cue file or a
// directory of them.
func Load(path string, mode LoadMode) (*Catalog, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog: %v", err)}}
	}
	if info.IsDir() {
		return LoadDir(path, mode)
	}
	return loadArgs(filepath.Dir(path), []string{filepath.Base(path)}, 1, mode)
}

// LoadDir loads every CUE file under dir as one catalog instance. The
// files must share a package clause so CUE treats them as one document.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDir(dir string, mode LoadMode) (*Catalog, []error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	return loadArgs(dir, []string{"."}, len(cueFiles), mode)
}

// loadArgs builds one CUE instance from the given load arguments, unifies
// it with the embedded schema, and decodes it.
func loadArgs(dir string, args []string, fileCount int, mode LoadMode) (*Catalog, []error) {
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	// Check for load errors
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	// Build value from instance
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	// Unify with the schema so malformed shapes fail here, with positions,
	// instead of surfacing as odd decode errors later.
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building embedded schema: %v", err)}}
	}
	value = value.Unify(schema)
	if err := value.Validate(); err != nil {
		return nil, []error{convertCompileError(formatCUEError(err), "schema")}
	}

	result := &Catalog{FileCount: fileCount}
	var errs []error

	// Extract the optional date label
	dateVal := value.LookupPath(cue.ParsePath("date"))
	if dateVal.Exists() {
		date, derr := dateVal.String()
		if derr != nil {
			errs = append(errs, convertCompileError(formatCUEError(derr), "date"))
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			result.Date = rail.TravelDate(date)
		}
	}

	// Extract trains
	trainsVal := value.LookupPath(cue.ParsePath("train"))
	if trainsVal.Exists() {
		iter, iterErr := trainsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating trains: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				train, compileErr := CompileTrain(iter.Value())
				if compileErr != nil {
					errs = append(errs, convertCompileError(compileErr, "train."+iter.Label()))
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				train.ID = rail.TrainID(iter.Label())
				result.Trains = append(result.Trains, *train)
			}
		}
	}

	// Check if we found anything
	if len(result.Trains) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no trains found in catalog"})
	}

	// Deterministic order regardless of declaration order across files.
	slices.SortFunc(result.Trains, func(a, b rail.Train) int {
		return cmp.Compare(a.ID, b.ID)
	})

	// Semantic checks run only on an otherwise clean catalog.
	if len(errs) == 0 {
		for _, verr := range rail.ValidateCatalog(result.Trains) {
			errs = append(errs, &LoadError{Code: ErrCodeInvalidCatalog, Message: verr.Error()})
			if mode == LoadModeFailFast {
				return result, errs
			}
		}
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compile error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	// Catalog validation errors
	ErrCodeMissingCoach   = "E101" // Train declares no coaches
	ErrCodeInvalidSeats   = "E102" // Bad seat count
	ErrCodeInvalidAvail   = "E103" // Bad available declaration
	ErrCodeInvalidCatalog = "E104" // Semantic validation failed
)

// MapFieldToErrorCode maps a compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "coach":
		return ErrCodeMissingCoach
	case "seats":
		return ErrCodeInvalidSeats
	case "available":
		return ErrCodeInvalidAvail
	case "cue", "schema":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}
