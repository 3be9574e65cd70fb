package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/sg-mapper/internal/config"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/netinfo"
	"github.com/pankaj-dahiya-devops/sg-mapper/internal/providers/aws/common"
)

// DoctorResult is the structured output of sgmap doctor. It can be rendered
// as JSON via --format=json or as a human-readable report (default).
type DoctorResult struct {
	AWS struct {
		Profile     string   `json:"profile,omitempty"`
		Credentials bool     `json:"credentials_ok"`
		AccountID   string   `json:"account_id,omitempty"`
		Profiles    []string `json:"configured_profiles,omitempty"`
		Error       string   `json:"error,omitempty"`
	} `json:"aws"`

	Config struct {
		Path         string   `json:"path"`
		Present      bool     `json:"present"`
		Valid        bool     `json:"valid"`
		CommonCIDRs  int      `json:"common_cidrs"`
		InvalidCIDRs []string `json:"invalid_cidrs,omitempty"`
		Error        string   `json:"error,omitempty"`
	} `json:"config"`

	Cache struct {
		Directory string `json:"directory"`
		Writable  bool   `json:"writable"`
	} `json:"cache"`

	OverallHealthy bool `json:"overall_healthy"`
}

func newDoctorCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Run environment diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")
			result, err := runDoctor(
				cmd.Context(),
				common.NewDefaultAWSClientProvider(),
				*configPath,
				cmd.OutOrStdout(),
				format,
				profile,
			)
			if err != nil {
				return err
			}
			if !result.OverallHealthy {
				// Exit directly so no error text reaches main's stderr path.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().String("format", "report", `Output format: "report" or "json"`)
	cmd.Flags().String("profile", "", "AWS profile to check (default: credential chain)")
	return cmd
}

// runDoctor performs the checks and renders the result to w.
func runDoctor(
	ctx context.Context,
	provider common.AWSClientProvider,
	configPath string,
	w io.Writer,
	format string,
	profile string,
) (*DoctorResult, error) {
	result := &DoctorResult{}

	// AWS credentials and identity.
	result.AWS.Profile = profile
	if pc, err := provider.LoadProfile(ctx, profile); err != nil {
		result.AWS.Error = err.Error()
	} else {
		result.AWS.Credentials = true
		result.AWS.AccountID = pc.AccountID
	}
	if names, err := common.DiscoverProfiles(); err == nil {
		result.AWS.Profiles = names
	}

	// Configuration file.
	result.Config.Path = configPath
	if _, err := os.Stat(configPath); err == nil {
		result.Config.Present = true
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		result.Config.Error = err.Error()
	} else {
		result.Config.Valid = true
		result.Config.CommonCIDRs = len(cfg.CommonCIDRs)
		for cidr := range cfg.CommonCIDRs {
			if _, ok := netinfo.ParsePrefix(cidr); !ok {
				result.Config.InvalidCIDRs = append(result.Config.InvalidCIDRs, cidr)
			}
		}
		sort.Strings(result.Config.InvalidCIDRs)
	}

	// Cache directory writability.
	if cfg != nil {
		result.Cache.Directory = cfg.Cache.Directory
		result.Cache.Writable = dirWritable(cfg.Cache.Directory)
	}

	result.OverallHealthy = result.AWS.Credentials && result.Config.Valid && result.Cache.Writable

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return nil, err
		}
		return result, nil
	}

	printDoctorReport(w, result)
	return result, nil
}

// dirWritable reports whether dir exists (or can be created) and a file can
// be written in it. The probe file is removed afterwards.
func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".doctor-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// printDoctorReport renders the human-readable diagnostics view.
func printDoctorReport(w io.Writer, r *DoctorResult) {
	fmt.Fprintln(w, "sgmap environment diagnostics")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "AWS credentials:   %s\n", okLabel(r.AWS.Credentials))
	if r.AWS.AccountID != "" {
		fmt.Fprintf(w, "  account:         %s\n", r.AWS.AccountID)
	}
	if len(r.AWS.Profiles) > 0 {
		fmt.Fprintf(w, "  profiles found:  %d\n", len(r.AWS.Profiles))
	}
	if r.AWS.Error != "" {
		fmt.Fprintf(w, "  error:           %s\n", r.AWS.Error)
	}

	fmt.Fprintf(w, "Config file:       %s\n", okLabel(r.Config.Valid))
	fmt.Fprintf(w, "  path:            %s\n", r.Config.Path)
	if !r.Config.Present {
		fmt.Fprintln(w, "  note:            file missing; built-in defaults in use")
	}
	if r.Config.Valid {
		fmt.Fprintf(w, "  common CIDRs:    %d\n", r.Config.CommonCIDRs)
	}
	for _, cidr := range r.Config.InvalidCIDRs {
		fmt.Fprintf(w, "  invalid CIDR:    %s\n", cidr)
	}
	if r.Config.Error != "" {
		fmt.Fprintf(w, "  error:           %s\n", r.Config.Error)
	}

	fmt.Fprintf(w, "Cache directory:   %s\n", okLabel(r.Cache.Writable))
	fmt.Fprintf(w, "  path:            %s\n", r.Cache.Directory)

	fmt.Fprintln(w)
	if r.OverallHealthy {
		fmt.Fprintln(w, "Overall: healthy")
	} else {
		fmt.Fprintln(w, "Overall: problems found")
	}
}

func okLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
