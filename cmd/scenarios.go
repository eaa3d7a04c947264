package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare financing scenarios across down payments and tenures",
	RunE:  runScenarios,
}

var (
	scValue    float64
	scDowns    []float64
	scTenures  []int
	scType     string
	scCustomer string
)

func init() {
	scenariosCmd.Flags().Float64Var(&scValue, "value", finance.DefaultVehicleValue, "Vehicle value")
	scenariosCmd.Flags().Float64SliceVar(&scDowns, "down", []float64{10000, 15000, 20000}, "Down payments to compare")
	scenariosCmd.Flags().IntSliceVar(&scTenures, "tenure", []int{36, 48, 60}, "Tenures in months to compare")
	scenariosCmd.Flags().StringVar(&scType, "type", "standard", "Vehicle type")
	scenariosCmd.Flags().StringVar(&scCustomer, "customer", "individual", "Customer type (individual, qatari)")
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	book, err := loadRateBook()
	if err != nil {
		return err
	}

	vt := finance.NormalizeVehicleType(scType)
	scenarios := finance.CompareScenarios(book, scValue, scDowns, scTenures, vt, scCustomer)
	if len(scenarios) == 0 {
		return fmt.Errorf("no valid scenarios for the given inputs")
	}

	fmt.Printf("%-12s %-8s %-12s %-12s %-12s\n", "Down", "Tenure", "Monthly", "Profit", "Total")
	for _, s := range scenarios {
		fmt.Printf("%-12.2f %-8d %-12.2f %-12.2f %-12.2f\n",
			s.DownPayment, s.TenureMonths, s.MonthlyInstalment, s.ProfitAmount, s.TotalPayable)
	}
	return nil
}
