package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"solar-treasury/internal/model"
)

// WriteHistoryCSV dumps the epoch history to a CSV file, one row per epoch.
func WriteHistoryCSV(path string, history []model.EpochRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"step",
		"nav",
		"hwm",
		"drawdown",
		"crisis_kind",
		"crisis_message",
		"survival_mode",
		"decision",
		"cash",
		"asset_count",
		"settlement_tx_id",
		"used_premium",
		"evpi",
		"info_spend",
		"net_edge",
		"market_stress",
		"regime",
		"forecast_production",
		"forecast_price",
		"rationale",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range history {
		row := []string{
			strconv.Itoa(r.Step),
			fmtFloat(r.NAV),
			fmtFloat(r.HWM),
			fmtFloat(r.Drawdown),
			string(r.CrisisKind),
			r.CrisisMessage,
			strconv.FormatBool(r.SurvivalMode),
			string(r.Decision),
			fmtFloat(r.Cash),
			strconv.Itoa(r.AssetCount),
			r.SettlementTxID,
			strconv.FormatBool(r.UsedPremium),
			fmtFloat(r.EVPI),
			fmtFloat(r.InfoSpend),
			fmtFloat(r.NetEdge),
			fmtFloat(r.MarketStress),
			string(r.Regime),
			fmtFloat(r.ForecastProduction),
			fmtFloat(r.ForecastPrice),
			strings.Join(r.Rationale, " | "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
