// Command bench is the load generator and demo driver for ccproc. It has
// no bearing on the processor's correctness; it exists to run the
// scenarios spec.md §8 describes against a selected concurrency-control
// mode and report what happened, the way the teacher's own
// cmd/driver/main.go drove its DB by hand and printed results.
package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ccproc/pkg/kv"
	"ccproc/pkg/processor"
	"ccproc/pkg/workload"
)

var modeNames = map[string]processor.Mode{
	"serial":  processor.Serial,
	"x-lock":  processor.LockingExclusiveOnly,
	"locking": processor.Locking,
	"occ":     processor.OCC,
	"p-occ":   processor.ParallelOCC,
}

func main() {
	var modeFlag string
	var workers int

	root := &cobra.Command{
		Use:   "bench",
		Short: "Run ccproc scenarios under a chosen concurrency-control mode",
	}
	root.PersistentFlags().StringVar(&modeFlag, "mode", "p-occ", "serial|x-lock|locking|occ|p-occ")
	root.PersistentFlags().IntVar(&workers, "workers", processor.DefaultWorkers, "worker pool size")

	root.AddCommand(bankCmd(&modeFlag, &workers))
	root.AddCommand(shoppingCmd(&modeFlag, &workers))
	root.AddCommand(throughputCmd(&modeFlag, &workers))

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("bench: command failed")
	}
}

func resolveMode(name string) processor.Mode {
	mode, ok := modeNames[name]
	if !ok {
		log.WithField("mode", name).Fatal("bench: unknown mode")
	}
	return mode
}

// bankCmd runs spec.md §8 S3: five BankTxns incrementing the same key
// concurrently; the final balance must equal 5 regardless of mode.
func bankCmd(modeFlag *string, workers *int) *cobra.Command {
	return &cobra.Command{
		Use:   "bank",
		Short: "Run the BasicBank scenario (S3)",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := resolveMode(*modeFlag)
			p := processor.New(mode, *workers)
			defer p.Stop()

			const account = kv.Key(1)
			p.NewTxnRequest(workload.NewPut(map[kv.Key]kv.Value{account: 0}))
			p.GetTxnResult()

			for i := 0; i < 5; i++ {
				p.NewTxnRequest(workload.NewBankTxn(account, 5*time.Millisecond))
			}
			for i := 0; i < 5; i++ {
				p.GetTxnResult()
			}

			balance, _ := p.Storage().Read(account)
			fmt.Printf("mode=%s final balance=%d (want 5)\n", mode, balance)
			return nil
		},
	}
}

// shoppingCmd runs spec.md §8 S4: five Shopping transactions racing over
// three units of stock; exactly three must win the decrement.
func shoppingCmd(modeFlag *string, workers *int) *cobra.Command {
	return &cobra.Command{
		Use:   "shopping",
		Short: "Run the Shopping scenario (S4)",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := resolveMode(*modeFlag)
			p := processor.New(mode, *workers)
			defer p.Stop()

			seed := map[kv.Key]kv.Value{1: 3}
			for acct := kv.Key(2); acct <= 8; acct++ {
				seed[acct] = 0
			}
			p.NewTxnRequest(workload.NewPut(seed))
			p.GetTxnResult()

			for acct := kv.Key(2); acct <= 6; acct++ {
				p.NewTxnRequest(workload.NewShopping(1, acct, 5*time.Millisecond))
			}
			for i := 0; i < 5; i++ {
				p.GetTxnResult()
			}

			stock, _ := p.Storage().Read(1)
			fmt.Printf("mode=%s final stock=%d (want 0)\n", mode, stock)
			for acct := kv.Key(2); acct <= 6; acct++ {
				v, _ := p.Storage().Read(acct)
				fmt.Printf("  account %d = %d\n", acct, v)
			}
			return nil
		},
	}
}

// throughputCmd runs spec.md §8 S6: a burst of concurrent BankTxns over
// a wide key space, just checking the processor drains without stalling.
func throughputCmd(modeFlag *string, workers *int) *cobra.Command {
	var clients, keySpace int
	cmd := &cobra.Command{
		Use:   "throughput",
		Short: "Run the throughput sanity scenario (S6)",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := resolveMode(*modeFlag)
			p := processor.New(mode, *workers)
			defer p.Stop()

			start := time.Now()
			for i := 0; i < clients; i++ {
				account := kv.Key(i % keySpace)
				p.NewTxnRequest(workload.NewBankTxn(account, 0))
			}
			for i := 0; i < clients; i++ {
				p.GetTxnResult()
			}
			fmt.Printf("mode=%s %d txns over %d keys in %s\n", mode, clients, keySpace, time.Since(start))
			return nil
		},
	}
	cmd.Flags().IntVar(&clients, "clients", 100, "concurrently active transactions")
	cmd.Flags().IntVar(&keySpace, "keys", 10000, "key space size")
	return cmd
}
