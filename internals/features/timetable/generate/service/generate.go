// file: internals/features/timetable/generate/service/generate.go
package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"timetable_backend/internals/apperr"
	"timetable_backend/internals/configs"
	ttService "timetable_backend/internals/features/timetable/timetables/service"
)

/* =========================================================
   EXPORT PIPELINE
   FindFull -> feasibility gate -> compile input.fet -> run
   the solver in a per-export temp dir -> stream the dir as
   a zip -> cleanup. The temp dir never outlives the export,
   success or failure.
   ========================================================= */

// ExportState tracks how far an export got. It is recorded on the
// timetable row after every attempt.
type ExportState string

const (
	StatePreparing ExportState = "preparing"
	StateCompiling ExportState = "compiling"
	StateSolving   ExportState = "solving"
	StatePackaging ExportState = "packaging"
	StateStreaming ExportState = "streaming"
	StateDone      ExportState = "done"
	StateFailed    ExportState = "failed"
)

// stderrTailLimit bounds what gets persisted in diagnostics.
const stderrTailLimit = 4096

// solverOutputDirName is where the solver drops its results, kept
// apart from input.fet so the archive never carries the input back.
const solverOutputDirName = "raw-output"

// ExportJob is a solved export waiting to be streamed. Dir is the
// per-export workdir; OutDir is the solver output subdirectory under
// it, the only part that gets archived. Cleanup is idempotent and
// must be called exactly when streaming ends or, on a pre-stream
// failure, before the error is surfaced.
type ExportJob struct {
	TimetableID uuid.UUID
	Dir         string
	OutDir      string
	Filename    string

	cleanup sync.Once
}

// Cleanup removes the job's working directory. Safe to call more
// than once.
func (j *ExportJob) Cleanup() {
	j.cleanup.Do(func() {
		if j.Dir == "" {
			return
		}
		if err := os.RemoveAll(j.Dir); err != nil {
			log.Printf("[EXPORT] cleanup of %s failed: %v", j.Dir, err)
		} else {
			log.Printf("[EXPORT] cleaned up %s", j.Dir)
		}
	})
}

// WriteZip streams every file under the solver output directory into
// w as a zip archive, walking in lexical order so archives are
// stable. input.fet sits one level up and stays out of the archive.
func (j *ExportJob) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(j.OutDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(j.OutDir, path)
		if err != nil {
			return err
		}
		f, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(f, src)
		return err
	})
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

type exportDiagnostics struct {
	State      ExportState `json:"state"`
	ExitCode   *int        `json:"exit_code,omitempty"`
	StderrTail string      `json:"stderr_tail,omitempty"`
	Error      string      `json:"error,omitempty"`
	Duration   string      `json:"duration,omitempty"`
	ExportedAt time.Time   `json:"exported_at"`
}

type ExportService struct {
	DB         *gorm.DB
	Timetables *ttService.TimetableService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db, Timetables: ttService.NewTimetableService(db)}
}

// Prepare runs the pipeline up to (and including) the solver. On
// success it returns an ExportJob whose workdir holds input.fet and
// whose output subdir holds the solver's results; the caller owns
// streaming and MUST call Cleanup. On failure the working directory
// is already gone.
func (s *ExportService) Prepare(ctx context.Context, timetableID, userID uuid.UUID) (*ExportJob, error) {
	start := time.Now()
	state := StatePreparing

	job, err := s.prepare(ctx, timetableID, userID, &state)

	diag := exportDiagnostics{State: state, ExportedAt: time.Now(), Duration: time.Since(start).String()}
	if err != nil {
		diag.State = StateFailed
		diag.Error = err.Error()
		if solverErr, ok := apperr.AsSolverExecution(err); ok {
			diag.ExitCode = &solverErr.ExitCode
			diag.StderrTail = tail(solverErr.Stderr, stderrTailLimit)
		}
	}
	// best effort; an export must not fail because diagnostics could
	// not be written
	if recErr := s.Timetables.RecordExport(ctx, timetableID, diag); recErr != nil {
		log.Printf("[EXPORT] recording diagnostics for %s failed: %v", timetableID, recErr)
	}

	return job, err
}

func (s *ExportService) prepare(ctx context.Context, timetableID, userID uuid.UUID, state *ExportState) (*ExportJob, error) {
	solverPath := configs.SolverExecutable()
	if solverPath == "" {
		return nil, &apperr.SolverExecutionError{Cause: errors.New("FET_EXECUTABLE_PATH is not configured")}
	}

	tt, err := s.Timetables.FindFull(ctx, timetableID, userID)
	if err != nil {
		return nil, err
	}
	if err := CheckFeasibility(tt); err != nil {
		return nil, err
	}

	*state = StateCompiling
	input, err := GenerateFetXML(tt)
	if err != nil {
		return nil, err
	}

	workdir := filepath.Join(os.TempDir(), fmt.Sprintf("timetable-%s-%d", timetableID, time.Now().UnixNano()))
	outDir := filepath.Join(workdir, solverOutputDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export workdir: %w", err)
	}
	job := &ExportJob{
		TimetableID: timetableID,
		Dir:         workdir,
		OutDir:      outDir,
		Filename:    fmt.Sprintf("timetable-%s.zip", timetableID),
	}

	inputPath := filepath.Join(workdir, "input.fet")
	if err := os.WriteFile(inputPath, input, 0o644); err != nil {
		job.Cleanup()
		return nil, fmt.Errorf("writing solver input: %w", err)
	}

	*state = StateSolving
	if err := runSolver(ctx, solverPath, inputPath, outDir); err != nil {
		job.Cleanup()
		return nil, err
	}

	*state = StatePackaging
	return job, nil
}

// FinishStreaming records the final outcome once the zip stream has
// ended. It runs inside the response body writer, after the request
// context is gone, so it uses a fresh one.
func (s *ExportService) FinishStreaming(timetableID uuid.UUID, streamErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	diag := exportDiagnostics{State: StateDone, ExportedAt: time.Now()}
	if streamErr != nil {
		diag.State = StateFailed
		diag.Error = streamErr.Error()
		log.Printf("[EXPORT] streaming for %s failed: %v", timetableID, streamErr)
	}
	if err := s.Timetables.RecordExport(ctx, timetableID, diag); err != nil {
		log.Printf("[EXPORT] recording stream outcome for %s failed: %v", timetableID, err)
	}
}

func runSolver(ctx context.Context, solverPath, inputPath, outputDir string) error {
	cmd := exec.CommandContext(ctx, solverPath,
		"--inputfile="+inputPath,
		"--outputdir="+outputDir,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &apperr.SolverExecutionError{Cause: err}
	}

	log.Printf("[EXPORT] running %s on %s", solverPath, inputPath)
	if err := cmd.Start(); err != nil {
		return &apperr.SolverExecutionError{Stderr: stderr.String(), Cause: err}
	}

	// solver progress goes to our log as it happens
	buf := make([]byte, 4096)
	for {
		n, readErr := stdout.Read(buf)
		if n > 0 {
			for _, line := range strings.Split(strings.TrimRight(string(buf[:n]), "\n"), "\n") {
				if line != "" {
					log.Printf("[FET] %s", line)
				}
			}
		}
		if readErr != nil {
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &apperr.SolverExecutionError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return &apperr.SolverExecutionError{Stderr: stderr.String(), Cause: err}
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
