package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/pgframe/internal/output"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// DumpResult summarises a finished dump.
type DumpResult struct {
	Rows    int
	Columns int
}

// DumpService reads a table or query and renders it in an output format.
type DumpService struct {
	logger  pgframe.Logger
	reader  pgframe.TableReader
	connect connectFunc
	stdout  io.Writer
}

// NewDumpService creates a DumpService. Panics on nil dependencies.
func NewDumpService(connectorFactory ConnectorFactory, logger pgframe.Logger, reader pgframe.TableReader) *DumpService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if reader == nil {
		panic("reader cannot be nil")
	}
	return &DumpService{
		logger:  logger,
		reader:  reader,
		connect: poolConnect(connectorFactory),
		stdout:  os.Stdout,
	}
}

// Dump runs config.Request and writes the result to config.OutputPath,
// or to stdout when no path is set. Nothing is written if the read fails.
func (s *DumpService) Dump(ctx context.Context, config pgframe.DumpConfig) (*DumpResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	formatter, err := output.ForName(config.Format)
	if err != nil {
		return nil, err
	}

	conn, cleanup, err := s.connect(ctx, config.Connection)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	data, err := s.reader.Read(ctx, conn, config.Request)
	if err != nil {
		return nil, err
	}

	if config.OutputPath == "" {
		if err := formatter.Format(data, s.stdout); err != nil {
			return nil, fmt.Errorf("failed to write %s output: %w", formatter.Name(), err)
		}
		return &DumpResult{Rows: data.Len(), Columns: data.Width()}, nil
	}

	f, err := os.Create(config.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w: %w", pgframe.ErrInvalidConfig, err)
	}
	if err := formatter.Format(data, f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s: %w", config.OutputPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", config.OutputPath, err)
	}
	s.logger.Verbose("Wrote %d rows to %s", data.Len(), config.OutputPath)

	return &DumpResult{Rows: data.Len(), Columns: data.Width()}, nil
}
