package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/dashboard"
	"github.com/wonny/stockai/dashboard/internal/render"
	"github.com/wonny/stockai/dashboard/internal/scheduler"
	"github.com/wonny/stockai/dashboard/internal/scheduler/jobs"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "터미널 대시보드",
	Long: `거래대금 순위를 주기적으로 갱신하며 터미널에 표시합니다.

입력 (Enter로 전송):
  종목코드  - 종목 선택 후 예측 (예: 005930.KS)
  r         - 예측 다시 시도
  x         - 알림 닫기
  q         - 종료

Example:
  go run ./cmd/dashboard watch
  go run ./cmd/dashboard watch --mock`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, svc, err := newService()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc.Probe(ctx)

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewRankingsRefreshJob(svc, cfg.Dashboard.RefreshInterval)); err != nil {
		return fmt.Errorf("add refresh job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	updates, unsubscribe := svc.Store().Subscribe()
	defer unsubscribe()

	if err := sched.RunJob(jobs.RankingsRefreshName); err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}

	input := make(chan string)
	go readCommands(input)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	draw := func() {
		fmt.Print("\033[2J\033[H")
		fmt.Print(render.Dashboard(svc.Store().Snapshot()))
		fmt.Print("\n> ")
	}
	draw()

	for {
		select {
		case <-quit:
			return nil

		case <-updates:
			draw()

		case line, ok := <-input:
			if !ok || line == "q" {
				return nil
			}
			// 예측 요청은 화면 갱신을 막지 않도록 비동기로
			go func() {
				if err := handleCommand(ctx, svc, line); err != nil {
					log.WithError(err).Debug("Watch command failed")
				}
			}()
		}
	}
}

// handleCommand runs one watch input line.
// Failures also land in the store as a notice, so the screen shows them.
func handleCommand(ctx context.Context, svc *dashboard.Service, line string) error {
	var err error

	switch line {
	case "":
	case "r":
		_, err = svc.RetryPrediction(ctx)
	case "x":
		svc.DismissNotice()
	default:
		_, err = svc.SelectStock(ctx, stockFor(svc, strings.ToUpper(line)))
	}

	return err
}

// stockFor prefers the ranking entry so name and price are known
func stockFor(svc *dashboard.Service, symbol string) contracts.Stock {
	for _, r := range svc.Store().Snapshot().Rankings {
		if r.Symbol == symbol {
			return r.Stock
		}
	}
	return contracts.Stock{Symbol: symbol, Market: marketFor(symbol)}
}

func readCommands(out chan<- string) {
	defer close(out)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- strings.TrimSpace(scanner.Text())
	}
}
