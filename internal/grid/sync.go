package grid

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
)

// Remote is the server side of the grid. Implementations report domain
// failures through the Error field of the response and return a non-nil
// error only for transport failures.
type Remote interface {
	Upsert(ctx context.Context, req grafik.UpsertEntryRequest) (grafik.UpsertEntryResponse, error)
	Batch(ctx context.Context, req grafik.BatchEntriesRequest) (grafik.BatchEntriesResponse, error)
	Delete(ctx context.Context, req grafik.DeleteEntryRequest) (grafik.DeleteEntryResponse, error)
	AutoPlan(ctx context.Context, req grafik.AutoPlanRequest) (grafik.AutoPlanResponse, error)
}

type OpKind int

const (
	OpUpsert OpKind = iota
	OpBatch
	OpDelete
	OpAutoPlan
)

func (k OpKind) String() string {
	switch k {
	case OpUpsert:
		return "upsert"
	case OpBatch:
		return "batch"
	case OpDelete:
		return "delete"
	case OpAutoPlan:
		return "auto_plan"
	}
	return "unknown"
}

// Op is one outbound mutation. It is prepared on the controller's goroutine,
// executed anywhere with Run, and its Outcome is handed back to Apply.
type Op struct {
	Kind     OpKind
	Upsert   grafik.UpsertEntryRequest
	Batch    grafik.BatchEntriesRequest
	Delete   grafik.DeleteEntryRequest
	AutoPlan grafik.AutoPlanRequest
	// Reason names the user action, for logs.
	Reason string

	seqs map[Key]uint64
}

// Outcome is the server's answer to an Op.
type Outcome struct {
	Op *Op
	// Results are the authoritative cell states; upsert and delete answers
	// are normalized into one result each.
	Results []grafik.BatchResult
	Count   int
	// Message is a domain error reported by the server.
	Message string
	// Err is a transport failure.
	Err error
}

var ErrUnexpectedResponse = errors.New("unexpected response from server")

// Run executes op against r. It reads only op and never touches the grid,
// so it is safe to call from any goroutine.
func Run(ctx context.Context, r Remote, op *Op) Outcome {
	out := Outcome{Op: op}
	switch op.Kind {
	case OpUpsert:
		resp, err := r.Upsert(ctx, op.Upsert)
		if err != nil {
			out.Err = err
			return out
		}
		if resp.Error != "" || !resp.Success {
			out.Message = failureMessage(resp.Error)
			return out
		}
		code, color := resp.Skrot, resp.Kolor
		out.Results = []grafik.BatchResult{{
			EmployeeID: op.Upsert.EmployeeID,
			Date:       op.Upsert.Date,
			Skrot:      &code,
			Kolor:      &color,
		}}

	case OpBatch:
		resp, err := r.Batch(ctx, op.Batch)
		if err != nil {
			out.Err = err
			return out
		}
		if resp.Error != "" || !resp.Success {
			out.Message = failureMessage(resp.Error)
			return out
		}
		out.Results = resp.Results

	case OpDelete:
		resp, err := r.Delete(ctx, op.Delete)
		if err != nil {
			out.Err = err
			return out
		}
		if resp.Error != "" || !resp.Success {
			out.Message = failureMessage(resp.Error)
			return out
		}
		out.Results = []grafik.BatchResult{{EmployeeID: op.Delete.EmployeeID, Date: op.Delete.Date}}

	case OpAutoPlan:
		resp, err := r.AutoPlan(ctx, op.AutoPlan)
		if err != nil {
			out.Err = err
			return out
		}
		if resp.Error != "" || !resp.Success {
			out.Message = failureMessage(resp.Error)
			return out
		}
		out.Count = resp.Count

	default:
		out.Err = ErrUnexpectedResponse
	}
	return out
}

func failureMessage(msg string) string {
	if msg == "" {
		return ErrUnexpectedResponse.Error()
	}
	return msg
}

// dayFromDate extracts the day of month from "YYYY-MM-DD".
func dayFromDate(date string) (int, bool) {
	i := strings.LastIndexByte(date, '-')
	if i < 0 {
		return 0, false
	}
	d, err := strconv.Atoi(date[i+1:])
	if err != nil {
		return 0, false
	}
	return d, true
}

// stamp gives every cell touched by op a fresh sequence number.
func (c *Controller) stamp(op *Op, keys []Key) *Op {
	c.inflight++
	op.seqs = make(map[Key]uint64, len(keys))
	for _, k := range keys {
		if _, ok := c.grid.Cell(k); !ok {
			continue
		}
		c.seq++
		op.seqs[k] = c.seq
	}
	return op
}

func (c *Controller) newUpsert(k Key, typeID int64) *Op {
	cell, _ := c.grid.Cell(k)
	op := &Op{
		Kind: OpUpsert,
		Upsert: grafik.UpsertEntryRequest{
			EmployeeID:   k.EmployeeID,
			DepartmentID: c.grid.DepartmentID,
			Date:         cell.Date,
			ShiftTypeID:  typeID,
		},
	}
	return c.stamp(op, []Key{k})
}

func (c *Controller) newDelete(k Key) *Op {
	cell, _ := c.grid.Cell(k)
	op := &Op{
		Kind: OpDelete,
		Delete: grafik.DeleteEntryRequest{
			EmployeeID:   k.EmployeeID,
			DepartmentID: c.grid.DepartmentID,
			Date:         cell.Date,
		},
	}
	return c.stamp(op, []Key{k})
}

// newBatch builds a batch for keys; a nil typeID clears them.
func (c *Controller) newBatch(keys []Key, typeID *int64) *Op {
	op := &Op{
		Kind: OpBatch,
		Batch: grafik.BatchEntriesRequest{
			DepartmentID: c.grid.DepartmentID,
			ShiftTypeID:  typeID,
		},
	}
	for _, k := range keys {
		cell, ok := c.grid.Cell(k)
		if !ok {
			continue
		}
		op.Batch.Entries = append(op.Batch.Entries, grafik.BatchEntry{EmployeeID: k.EmployeeID, Date: cell.Date})
	}
	return c.stamp(op, keys)
}

// Apply reconciles the grid with an Outcome. Results older than the last
// applied result of their cell are dropped.
func (c *Controller) Apply(out Outcome) {
	op := out.Op
	if op == nil {
		return
	}
	if c.inflight > 0 {
		c.inflight--
	}
	log := c.logger.With("op", op.Kind.String(), "reason", op.Reason)

	if out.Err != nil {
		log.Error("grid request failed", "error", out.Err)
		switch op.Kind {
		case OpUpsert:
			c.alert = "Błąd połączenia z serwerem."
		case OpAutoPlan:
			c.alert = "Wystąpił błąd podczas generowania planu."
		}
		return
	}
	if out.Message != "" {
		log.Warn("grid request rejected", "message", out.Message)
		if op.Kind == OpUpsert || op.Kind == OpAutoPlan {
			c.alert = out.Message
		}
		return
	}
	if op.Kind == OpAutoPlan {
		c.reloadNeeded = true
		return
	}

	affected := make(map[int64]struct{})
	for _, r := range out.Results {
		day, ok := dayFromDate(r.Date)
		if !ok {
			continue
		}
		k := Key{EmployeeID: r.EmployeeID, Day: day}
		cell, ok := c.grid.Cell(k)
		if !ok {
			continue
		}
		seq, stamped := op.seqs[k]
		if stamped && seq < cell.applied {
			log.Debug("stale grid result dropped", "cell", k.String(), "seq", seq, "applied", cell.applied)
			continue
		}
		if stamped {
			cell.applied = seq
		}
		code, color := "", ""
		if r.Skrot != nil {
			code = *r.Skrot
		}
		if r.Kolor != nil {
			color = *r.Kolor
		}
		cell.setCode(code, color)
		affected[k.EmployeeID] = struct{}{}
	}
	for id := range affected {
		c.grid.recountFree(id)
	}
}

// InFlight returns the number of prepared ops whose outcome has not been
// applied yet.
func (c *Controller) InFlight() int {
	return c.inflight
}
