package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-fieldtime/internal/offlinequeue"
)

type identity struct {
	workerID  string
	companyID string
}

func (id *identity) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&id.workerID, "worker", "", "worker id")
	cmd.Flags().StringVar(&id.companyID, "company", "", "company id")
	_ = cmd.MarkFlagRequired("worker")
	_ = cmd.MarkFlagRequired("company")
}

type fixFlags struct {
	lat, lng, accuracy float64
}

func (f *fixFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "latitude of the device fix")
	cmd.Flags().Float64Var(&f.lng, "lng", 0, "longitude of the device fix")
	cmd.Flags().Float64Var(&f.accuracy, "accuracy", 0, "fix accuracy in meters")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
}

func (f *fixFlags) apply(cmd *cobra.Command, p *offlinequeue.Payload) {
	if !cmd.Flags().Changed("lat") {
		return
	}
	lat, lng := f.lat, f.lng
	p.Latitude, p.Longitude = &lat, &lng
	if cmd.Flags().Changed("accuracy") {
		acc := f.accuracy
		p.Accuracy = &acc
	}
}

func newQueueCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Record clock actions offline and sync them later",
	}
	cmd.AddCommand(
		newEnqueueCommand(o, offlinequeue.KindClockIn),
		newEnqueueCommand(o, offlinequeue.KindClockOut),
		newSyncCommand(o),
		newStatusCommand(o),
	)
	return cmd
}

func newEnqueueCommand(o *Options, kind string) *cobra.Command {
	var (
		id      identity
		fix     fixFlags
		jobID   string
		entryID string
	)

	use, short := "clock-in", "Queue a clock-in"
	if kind == offlinequeue.KindClockOut {
		use, short = "clock-out", "Queue a clock-out"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := openJournal(o)
			if err != nil {
				return err
			}
			defer closeFn()

			payload := offlinequeue.Payload{JobID: jobID, EntryID: entryID}
			fix.apply(cmd, &payload)

			item, err := journal.Enqueue(cmd.Context(), offlinequeue.EnqueueRequest{
				WorkerID:  id.workerID,
				CompanyID: id.companyID,
				Kind:      kind,
				Payload:   payload,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(o.Out, "queued %s #%d (event %s)\n", item.Kind, item.Seq, item.ClientEventID)
			return nil
		},
	}
	id.bind(cmd)
	fix.bind(cmd)
	if kind == offlinequeue.KindClockIn {
		cmd.Flags().StringVar(&jobID, "job", "", "job id; resolved on the server when empty")
	} else {
		cmd.Flags().StringVar(&entryID, "entry", "", "entry id; defaults to the latest queued clock-in")
	}
	return cmd
}

func newSyncCommand(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued actions in order, retrying transient failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := openJournal(o)
			if err != nil {
				return err
			}
			defer closeFn()

			// a previous run may have died mid-send
			if _, err := journal.RecoverInflight(cmd.Context()); err != nil {
				return err
			}

			report, err := offlinequeue.NewSyncer(journal, o.Transport, o.Clock, o.Logger).Drain(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(o.Out, report)
		},
	}
}

type statusOutput struct {
	Stats  offlinequeue.Stats `json:"stats"`
	Failed []failedItem       `json:"failed,omitempty"`
}

type failedItem struct {
	Seq           int64  `json:"seq"`
	Kind          string `json:"kind"`
	ClientEventID string `json:"client_event_id"`
	LastError     string `json:"last_error"`
}

func newStatusCommand(o *Options) *cobra.Command {
	var workerID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue counts and failed actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, closeFn, err := openJournal(o)
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := journal.Stats(cmd.Context(), workerID)
			if err != nil {
				return err
			}
			failed, err := journal.List(cmd.Context(), workerID, offlinequeue.StateFailed)
			if err != nil {
				return err
			}

			out := statusOutput{Stats: stats}
			for _, it := range failed {
				out.Failed = append(out.Failed, failedItem{
					Seq:           it.Seq,
					Kind:          it.Kind,
					ClientEventID: it.ClientEventID,
					LastError:     it.LastError,
				})
			}
			return printJSON(o.Out, out)
		},
	}
	cmd.Flags().StringVar(&workerID, "worker", "", "worker id; every worker when empty")
	return cmd
}
