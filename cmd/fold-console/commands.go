// ABOUTME: Subcommand implementations for the fold-console CLI
// ABOUTME: Tabwriter listings and colored status output over the API client

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/fold-console/internal/client"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

// cmdLogin forces a round trip through the gateway so missing or stale
// credentials trigger the prompt immediately.
func (a *app) cmdLogin(ctx context.Context) error {
	id, err := a.api.Me(ctx)
	if err != nil {
		return err
	}

	green.Print("✓ ")
	fmt.Printf("Logged in as %s", id.Username)
	if id.TenantID != "" {
		fmt.Printf(" (tenant %s)", id.TenantID)
	}
	fmt.Println()
	return nil
}

// cmdLogout clears both the cached credential and the remembered username.
func (a *app) cmdLogout() error {
	a.creds.Clear(a.origin)
	a.creds.ForgetIdentity()
	fmt.Println("Logged out; cached credentials cleared.")
	return nil
}

func (a *app) cmdStatus(ctx context.Context) error {
	fmt.Print(banner)
	fmt.Println("  Session")
	fmt.Println("  -------")

	id, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("  Server:   %s\n", a.origin)
	fmt.Printf("  User:     %s\n", id.Username)
	fmt.Printf("  Tenant:   %s\n", id.TenantID)
	fmt.Printf("  Roles:    %s\n", strings.Join(id.Roles, ", "))
	return nil
}

func (a *app) cmdProjects(ctx context.Context, args []string) error {
	if len(args) >= 2 && args[0] == "show" {
		return a.showProject(ctx, args[1])
	}

	projects, err := a.api.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("No projects.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMODEL\tLANG\tACTIVE\tARTICLES")
	for _, p := range projects {
		active := "no"
		if p.Active {
			active = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Model, p.Language, active, p.ArticleCnt)
	}
	return w.Flush()
}

func (a *app) showProject(ctx context.Context, id string) error {
	p, err := a.api.GetProject(ctx, id)
	if err != nil {
		return err
	}

	cyan.Println(p.Name)
	fmt.Printf("  ID:          %s\n", p.ID)
	fmt.Printf("  Model:       %s\n", p.Model)
	fmt.Printf("  Language:    %s\n", p.Language)
	fmt.Printf("  Active:      %v\n", p.Active)
	fmt.Printf("  Articles:    %d\n", p.ArticleCnt)
	fmt.Printf("  Created:     %s\n", p.CreatedAt)
	if p.Description != "" {
		fmt.Printf("  Description: %s\n", p.Description)
	}
	return nil
}

func (a *app) cmdKB(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: kb <project> [folders|push <file.md> [folder-id]|rm <article-id>]")
	}
	projectID := args[0]
	rest := args[1:]

	switch {
	case len(rest) == 0 || rest[0] == "folders":
		return a.listFolders(ctx, projectID)
	case rest[0] == "push" && len(rest) >= 2:
		folderID := ""
		if len(rest) >= 3 {
			folderID = rest[2]
		}
		return a.pushArticle(ctx, projectID, rest[1], folderID)
	case rest[0] == "rm" && len(rest) >= 2:
		if err := a.api.DeleteArticle(ctx, projectID, rest[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted article %s\n", rest[1])
		return nil
	default:
		return fmt.Errorf("unknown kb subcommand %q", rest[0])
	}
}

func (a *app) listFolders(ctx context.Context, projectID string) error {
	folders, err := a.api.ListFolders(ctx, projectID)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		fmt.Println("No folders.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tARTICLES")
	for _, f := range folders {
		fmt.Fprintf(w, "%s\t%s\t%d\n", f.ID, f.Name, f.Articles)
	}
	return w.Flush()
}

// pushArticle reads a markdown file and uploads it. The title is the
// first heading, or the file name when no heading exists.
func (a *app) pushArticle(ctx context.Context, projectID, path, folderID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading article: %w", err)
	}

	body := string(data)
	title := articleTitle(body, path)

	created, err := a.api.PushArticle(ctx, projectID, client.Article{
		FolderID: folderID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		return err
	}

	green.Print("✓ ")
	fmt.Printf("Pushed %q as %s\n", title, created.ID)
	return nil
}

// articleTitle extracts the first markdown heading, falling back to the
// file name without extension.
func articleTitle(body, path string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *app) cmdCrawler(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: crawler <project> [status|apply <plan.toml>|stop]")
	}
	projectID := args[0]
	rest := args[1:]

	switch {
	case len(rest) == 0 || rest[0] == "status":
		st, err := a.api.CrawlerStatus(ctx, projectID)
		if err != nil {
			return err
		}
		printCrawlStatus(st)
		return nil
	case rest[0] == "apply" && len(rest) >= 2:
		plan, err := client.LoadCrawlPlan(rest[1])
		if err != nil {
			return err
		}
		if err := a.api.StartCrawl(ctx, projectID, plan); err != nil {
			return err
		}
		green.Print("✓ ")
		fmt.Printf("Crawl %q started (%d seeds, depth %d)\n", plan.Name, len(plan.Seeds), plan.MaxDepth)
		return nil
	case rest[0] == "stop":
		if err := a.api.StopCrawl(ctx, projectID); err != nil {
			return err
		}
		fmt.Println("Crawl stopped.")
		return nil
	default:
		return fmt.Errorf("unknown crawler subcommand %q", rest[0])
	}
}

func printCrawlStatus(st *client.CrawlStatus) {
	switch st.State {
	case "running":
		yellow.Printf("● %s", st.State)
	case "failed":
		color.New(color.FgRed).Printf("✗ %s", st.State)
	default:
		fmt.Printf("○ %s", st.State)
	}
	fmt.Println()

	if st.PlanName != "" {
		fmt.Printf("  Plan:     %s\n", st.PlanName)
	}
	fmt.Printf("  Fetched:  %d\n", st.PagesFetched)
	fmt.Printf("  Queued:   %d\n", st.PagesQueued)
	if st.StartedAt != "" {
		fmt.Printf("  Started:  %s\n", st.StartedAt)
	}
	if st.LastError != "" {
		fmt.Printf("  Error:    %s\n", st.LastError)
	}
}

func (a *app) cmdBackup(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: backup <project> [list|schedule <cron> <retention>|rm <id>]")
	}
	projectID := args[0]
	rest := args[1:]

	switch {
	case len(rest) == 0 || rest[0] == "list":
		backups, err := a.api.ListBackups(ctx, projectID)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATE\tSIZE\tCREATED")
		for _, b := range backups {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.State, formatSize(b.SizeBytes), b.CreatedAt)
		}
		return w.Flush()
	case rest[0] == "schedule" && len(rest) >= 3:
		retention, err := strconv.Atoi(rest[2])
		if err != nil {
			return fmt.Errorf("retention must be a number: %w", err)
		}
		schedule := client.BackupSchedule{Cron: rest[1], Retention: retention, Enabled: true}
		if err := a.api.ScheduleBackup(ctx, projectID, schedule); err != nil {
			return err
		}
		fmt.Printf("Backup schedule set: %s (keep %d)\n", rest[1], retention)
		return nil
	case rest[0] == "rm" && len(rest) >= 2:
		if err := a.api.DeleteBackup(ctx, projectID, rest[1]); err != nil {
			return err
		}
		fmt.Printf("Deleted backup %s\n", rest[1])
		return nil
	default:
		return fmt.Errorf("unknown backup subcommand %q", rest[0])
	}
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(bytes)/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func (a *app) cmdVoice(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: voice <project> [status|train <sample-set-id>]")
	}
	projectID := args[0]
	rest := args[1:]

	switch {
	case len(rest) == 0 || rest[0] == "status":
		vt, err := a.api.VoiceTrainingStatus(ctx, projectID)
		if err != nil {
			return err
		}
		fmt.Printf("State:    %s\n", vt.State)
		if vt.ModelID != "" {
			fmt.Printf("Model:    %s\n", vt.ModelID)
		}
		fmt.Printf("Samples:  %d\n", vt.SampleCnt)
		fmt.Printf("Progress: %.0f%%\n", vt.Progress*100)
		if vt.LastError != "" {
			fmt.Printf("Error:    %s\n", vt.LastError)
		}
		return nil
	case rest[0] == "train" && len(rest) >= 2:
		if err := a.api.StartVoiceTraining(ctx, projectID, rest[1]); err != nil {
			return err
		}
		green.Print("✓ ")
		fmt.Printf("Training started over sample set %s\n", rest[1])
		return nil
	default:
		return fmt.Errorf("unknown voice subcommand %q", rest[0])
	}
}

func (a *app) cmdDashboard(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: dashboard <project> [window]")
	}
	projectID := args[0]
	window := "24h"
	if len(args) >= 2 {
		window = args[1]
	}

	stats, err := a.api.DashboardStats(ctx, projectID, window)
	if err != nil {
		return err
	}

	cyan.Printf("Usage (%s)\n", stats.Window)
	fmt.Printf("  Conversations:  %d\n", stats.Conversations)
	fmt.Printf("  Messages:       %d\n", stats.Messages)
	fmt.Printf("  Visitors:       %d\n", stats.UniqueVisitors)
	fmt.Printf("  Avg response:   %.1fs\n", stats.AvgResponseSecs)
	fmt.Printf("  Tokens:         %d\n", stats.TokensUsed)
	fmt.Printf("  Escalations:    %.1f%%\n", stats.EscalationRate*100)
	return nil
}
