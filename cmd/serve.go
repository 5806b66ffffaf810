package cmd

import (
	"github.com/aqlanhadi/mpx/api"
	"github.com/aqlanhadi/mpx/export"
	"github.com/aqlanhadi/mpx/extractor"
	"github.com/aqlanhadi/mpx/extractor/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Starts the HTTP API server that accepts statement PDFs and returns the
extracted data as JSON (POST /extract) or as an xlsx workbook (POST /convert).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.DefaultConfig()

		port := servePort
		if port == "" {
			port = viper.GetString("server.port")
		}
		if port != "" {
			cfg.Port = ":" + port
		}

		cfg.Extract = extractor.OptionsFromConfig()
		if engineName != "" {
			cfg.Extract.Engine = engineName
		}
		cfg.Sheets = export.SheetNamesFromConfig()

		// the UniDoc key is registered once per process
		if cfg.Extract.Engine == common.EngineUniPDF {
			if err := common.SetUniPDFLicense(cfg.Extract.LicenseKey); err != nil {
				return err
			}
		}

		return api.New(cfg).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to run the API server on (config server.port)")
	serveCmd.Flags().StringVar(&engineName, "engine", "", "PDF text engine: rows, plain or unipdf (config pdf.engine)")
}
