package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/notice"
	"github.com/wonny/stockai/dashboard/internal/render"
)

var (
	rankingsCmd = &cobra.Command{
		Use:   "rankings",
		Short: "거래대금 상위 종목 조회",
		Long: `백엔드에서 거래대금 상위 종목을 한 번 조회해 출력합니다.

Example:
  go run ./cmd/dashboard rankings
  go run ./cmd/dashboard rankings --mock`,
		RunE: runRankings,
	}

	predictCmd = &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "종목 AI 예측 조회",
		Long: `모델별 1일/1주/1개월 예측과 종합 예측을 출력합니다.
종합 예측의 ⚠ 표시는 모델 간 의견 차이가 큰 경우입니다.

Example:
  go run ./cmd/dashboard predict 005930.KS
  go run ./cmd/dashboard predict 247540.KQ --market KOSDAQ`,
		Args: cobra.ExactArgs(1),
		RunE: runPredict,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "백엔드 헬스 체크",
		RunE:  runHealth,
	}
)

var (
	predictMarket string
)

func init() {
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(healthCmd)

	predictCmd.Flags().StringVar(&predictMarket, "market", "", "시장 (KOSPI|KOSDAQ), 기본값은 종목코드 접미사로 판단")
}

func runRankings(cmd *cobra.Command, args []string) error {
	_, _, svc, err := newService()
	if err != nil {
		return err
	}

	if _, err := svc.RefreshRankings(cmd.Context()); err != nil {
		fmt.Print(render.Notice(notice.Classify(err)))
		return err
	}

	snap := svc.Store().Snapshot()
	fmt.Print(render.Rankings(snap.Rankings, snap.RankingsUpdatedAt))
	return nil
}

func runPredict(cmd *cobra.Command, args []string) error {
	_, _, svc, err := newService()
	if err != nil {
		return err
	}

	symbol := strings.ToUpper(strings.TrimSpace(args[0]))
	market := predictMarket
	if market == "" {
		market = marketFor(symbol)
	}

	result, err := svc.SelectStock(cmd.Context(), contracts.Stock{Symbol: symbol, Market: market})
	if err != nil {
		fmt.Print(render.Notice(notice.Classify(err)))
		return err
	}

	fmt.Print(render.Prediction(result))
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	_, _, svc, err := newService()
	if err != nil {
		return err
	}

	status := svc.Probe(cmd.Context())
	fmt.Print(render.Health(status))
	if status == nil {
		return fmt.Errorf("backend unreachable")
	}
	return nil
}

// marketFor infers the market from the exchange suffix (.KQ = KOSDAQ)
func marketFor(symbol string) string {
	if strings.HasSuffix(symbol, ".KQ") {
		return "KOSDAQ"
	}
	return "KOSPI"
}
