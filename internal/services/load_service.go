package services

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/pgframe/internal/schema"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// LoadResult summarises a finished load.
type LoadResult struct {
	Target  pgframe.TableIdentity
	Rows    int
	Columns []pgframe.ColumnDescriptor
}

// LoadService reads a data file and writes it to a table.
// Thread-Safety: NOT safe for concurrent Load() calls on the same instance.
type LoadService struct {
	approver pgframe.Approver
	logger   pgframe.Logger
	manager  pgframe.TableManager
	writer   pgframe.TableWriter
	connect  connectFunc
	stdin    io.Reader
}

// NewLoadService creates a LoadService. Panics on nil dependencies.
func NewLoadService(
	connectorFactory ConnectorFactory,
	approver pgframe.Approver,
	logger pgframe.Logger,
	manager pgframe.TableManager,
	writer pgframe.TableWriter,
) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if manager == nil {
		panic("manager cannot be nil")
	}
	if writer == nil {
		panic("writer cannot be nil")
	}
	return &LoadService{
		approver: approver,
		logger:   logger,
		manager:  manager,
		writer:   writer,
		connect:  poolConnect(connectorFactory),
		stdin:    os.Stdin,
	}
}

// Load parses config.SourcePath and writes it to config.Target under config.Policy.
// The replace policy asks the approver before an existing table is dropped.
func (s *LoadService) Load(ctx context.Context, config pgframe.LoadConfig) (*LoadResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	data, err := s.readSource(config)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Parsed %s: %d rows, %d columns", config.SourcePath, data.Len(), data.Width())

	// Infer before connecting so a bad file never touches the database.
	columns, err := schema.Infer(data)
	if err != nil {
		return nil, err
	}

	conn, cleanup, err := s.connect(ctx, config.Connection)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if config.Policy == pgframe.PolicyReplace {
		if err := s.approveReplace(ctx, conn, config.Target); err != nil {
			return nil, err
		}
	}

	if err := s.writer.Write(ctx, conn, data, config.Target, config.Policy); err != nil {
		return nil, err
	}

	return &LoadResult{Target: config.Target, Rows: data.Len(), Columns: columns}, nil
}

func (s *LoadService) approveReplace(ctx context.Context, conn pgframe.DBConnection, ident pgframe.TableIdentity) error {
	exists, err := s.manager.Exists(ctx, conn, ident)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	approved, err := s.approver.RequestApproval(ctx, ident.String())
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("replace of %s: %w", ident, pgframe.ErrApprovalDenied)
	}
	return nil
}

func (s *LoadService) readSource(config pgframe.LoadConfig) (*frame.Frame, error) {
	var r io.Reader = s.stdin
	if config.SourcePath != "-" {
		f, err := os.Open(config.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open source file: %w: %w", pgframe.ErrInvalidConfig, err)
		}
		defer f.Close()
		r = f
	}

	var (
		data *frame.Frame
		err  error
	)
	switch config.Format {
	case "json":
		data, err = frame.ReadJSON(r)
	case "tsv":
		data, err = frame.ReadCSV(r, frame.CSVOptions{Comma: '\t', NullValues: config.NullValues})
	default:
		data, err = frame.ReadCSV(r, frame.CSVOptions{Comma: config.Delimiter, NullValues: config.NullValues})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", config.SourcePath, pgframe.ErrDataShape, err)
	}
	return data, nil
}
