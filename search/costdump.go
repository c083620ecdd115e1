package search

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/MainEpicenter/timeloop/datarecording"
	"github.com/MainEpicenter/timeloop/hooking"
)

// CostDumper is a hook that writes the best cost of every index
// factorization into a CSV file. Several searches can share a dumper. Rows of
// one search keep the order the search finished its branches in.
type CostDumper struct {
	mu   sync.Mutex
	path string
	file *os.File

	records    []BranchRecord
	bufferSize int
}

// NewCostDumper creates a CostDumper that writes into path.csv.
func NewCostDumper(path string) *CostDumper {
	return &CostDumper{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the file. It panics if the file already exists.
func (d *CostDumper) Init() {
	if d.path == "" {
		d.path = "timeloop_if_cost_" + xid.New().String()
	}

	filename := d.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	d.file = file

	fmt.Fprintf(file, "SearchID, Factorization, BestCost\n")

	atexit.Register(func() {
		err := d.Close()
		if err != nil {
			panic(err)
		}
	})
}

// Func records the best cost of a finished branch.
func (d *CostDumper) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBranchDone {
		return
	}

	record := ctx.Item.(BranchRecord)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.records = append(d.records, record)
	if len(d.records) >= d.bufferSize {
		d.flush()
	}
}

// Flush writes the buffered records to the file.
func (d *CostDumper) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.flush()
}

func (d *CostDumper) flush() {
	for _, r := range d.records {
		fmt.Fprintf(d.file, "%s, %d, %g\n",
			r.SearchID, r.Factorization, r.BestCost)
	}

	d.records = nil
}

// Close flushes and closes the file. Closing twice is a no-op.
func (d *CostDumper) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}

	d.flush()

	err := d.file.Close()
	d.file = nil

	return err
}

// BranchCostTable is the table CostRecorder writes into.
const BranchCostTable = "branch_cost"

// CostRecorder is a hook that stores the best cost of every index
// factorization into a DataRecorder.
type CostRecorder struct {
	recorder datarecording.DataRecorder
}

// NewCostRecorder creates a CostRecorder and the table it writes into.
func NewCostRecorder(recorder datarecording.DataRecorder) *CostRecorder {
	recorder.CreateTable(BranchCostTable, BranchRecord{})

	return &CostRecorder{recorder: recorder}
}

// Func records the best cost of a finished branch.
func (r *CostRecorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBranchDone {
		return
	}

	r.recorder.InsertData(BranchCostTable, ctx.Item.(BranchRecord))
}
