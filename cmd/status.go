package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ridoystarlord/migrato/config"
	"github.com/ridoystarlord/migrato/generator"
	"github.com/ridoystarlord/migrato/runner"
)

type migrationStatus struct {
	applied []string
	pending []string
	missing []int64 // recorded as applied but no file on disk
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		db, err := connect(ctx)
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}

		applied, err := runner.AppliedVersions(ctx, db, appConfig.MigrationTable)
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}

		w := &generator.Writer{Fs: config.AppFs, Dir: appConfig.MigrationsDir, Extension: generator.Phinx.FileExtension}
		files, err := w.List()
		if err != nil {
			fmt.Println("❌ Status error:", err)
			os.Exit(1)
		}

		st := compareMigrations(files, applied)

		fmt.Println("✅ Applied migrations:")
		for _, f := range st.applied {
			fmt.Println("   -", f)
		}

		if len(st.missing) > 0 {
			fmt.Println("\n❌ Applied but missing from", appConfig.MigrationsDir+":")
			for _, v := range st.missing {
				fmt.Println("   -", v)
			}
		}

		fmt.Println("\n🕒 Pending migrations:")
		for _, f := range st.pending {
			fmt.Println("   -", f)
		}
	},
}

func compareMigrations(files []string, applied map[int64]bool) migrationStatus {
	var st migrationStatus
	seen := map[int64]bool{}
	for _, f := range files {
		version, _, _ := generator.ParseFileName(f)
		v, err := strconv.ParseInt(version, 10, 64)
		if err != nil {
			continue
		}
		seen[v] = true
		if applied[v] {
			st.applied = append(st.applied, f)
		} else {
			st.pending = append(st.pending, f)
		}
	}
	for v := range applied {
		if !seen[v] {
			st.missing = append(st.missing, v)
		}
	}
	sort.Slice(st.missing, func(i, j int) bool { return st.missing[i] < st.missing[j] })
	return st
}
