package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qmotors/dealerbot-go/internal/config"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Run a Murabaha financing calculation",
	RunE:  runCalc,
}

var (
	calcValue    float64
	calcDown     float64
	calcTenure   int
	calcType     string
	calcCustomer string
	calcRepeat   bool
	calcLegacy   bool
)

func init() {
	calcCmd.Flags().Float64Var(&calcValue, "value", finance.DefaultVehicleValue, "Vehicle value")
	calcCmd.Flags().Float64Var(&calcDown, "down", finance.DefaultDownPayment, "Down payment")
	calcCmd.Flags().IntVar(&calcTenure, "tenure", finance.DefaultTenureMonths, "Tenure in months")
	calcCmd.Flags().StringVar(&calcType, "type", "standard", "Vehicle type (standard, hybrid, land_cruiser, lx600, lx700)")
	calcCmd.Flags().StringVar(&calcCustomer, "customer", "individual", "Customer type (individual, qatari)")
	calcCmd.Flags().BoolVar(&calcRepeat, "repeat", false, "Apply the repeat customer discount")
	calcCmd.Flags().BoolVar(&calcLegacy, "legacy", false, "Use the legacy profit rates")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	book, err := loadRateBook()
	if err != nil {
		return err
	}

	req := finance.Request{
		VehicleValue:     calcValue,
		DownPayment:      calcDown,
		TenureMonths:     calcTenure,
		VehicleType:      finance.NormalizeVehicleType(calcType),
		CustomerType:     calcCustomer,
		IsRepeatCustomer: calcRepeat,
		UseNewRules:      !calcLegacy,
	}

	res, err := finance.Calculate(book, req)
	if err != nil {
		return err
	}

	fmt.Printf("Vehicle value:      %12.2f\n", req.VehicleValue)
	fmt.Printf("Down payment:       %12.2f  (%.2f%%)\n", req.DownPayment, res.DownPaymentPercentage)
	fmt.Printf("Balance (Murabaha): %12.2f\n", res.BalanceAmount)
	fmt.Printf("Profit rate:        %12.3f%%\n", res.ProfitRate*100)
	fmt.Printf("Profit amount:      %12.2f\n", res.ProfitAmount)
	fmt.Printf("Total financing:    %12.2f\n", res.TotalFinancing)
	fmt.Printf("Monthly instalment: %12.2f  over %d months\n", res.MonthlyInstalment, req.TenureMonths)
	fmt.Printf("Total payable:      %12.2f\n", res.TotalPayable)
	return nil
}

func loadRateBook() (*finance.RateBook, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Finance.RateBookPath == "" {
		return finance.DefaultRateBook(), nil
	}
	book, err := finance.LoadRateBook(cfg.Finance.RateBookPath)
	if err != nil {
		return nil, fmt.Errorf("loading rate book: %w", err)
	}
	return book, nil
}
