package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nyacdn/cdnctl/internal/api"
	"github.com/nyacdn/cdnctl/internal/cli"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		username := fs.String("username", "", "Username (prompted when omitted)")
		password := fs.String("password", "", "Password (prompted when omitted)")
		fs.Parse(os.Args[2:])
		run(app.Login(ctx, *username, *password))

	case "logout":
		run(app.Logout())

	case "whoami":
		run(app.Whoami(ctx))

	case "user":
		userCmd(ctx, app)
	case "instance":
		instanceCmd(ctx, app)
	case "site":
		siteCmd(ctx, app)
	case "cert":
		certCmd(ctx, app)
	case "template":
		templateCmd(ctx, app)
	case "file":
		fileCmd(ctx, app)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func action() string {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}
	return os.Args[2]
}

func parseID(fs *flag.FlagSet) int64 {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: entity id argument is required")
		os.Exit(1)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid id %q\n", fs.Arg(0))
		os.Exit(1)
	}
	return id
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range splitCSV(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// changed reports flags the user set explicitly, so updates can leave
// everything else untouched.
func changed(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func userCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("user list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.UserList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("user get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.UserGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("user create", flag.ExitOnError)
		name := fs.String("name", "", "Display name (required)")
		username := fs.String("username", "", "Login username (required)")
		password := fs.String("password", "", "Initial password (required)")
		admin := fs.Bool("admin", false, "Grant the admin role")
		fs.Parse(os.Args[3:])
		run(app.UserCreate(ctx, *name, *username, *password, *admin))

	case "rename":
		fs := flag.NewFlagSet("user rename", flag.ExitOnError)
		name := fs.String("name", "", "New display name (required)")
		fs.Parse(os.Args[3:])
		run(app.UserRename(ctx, parseID(fs), *name))

	case "set-username":
		fs := flag.NewFlagSet("user set-username", flag.ExitOnError)
		username := fs.String("username", "", "New username (required)")
		fs.Parse(os.Args[3:])
		run(app.UserSetUsername(ctx, parseID(fs), *username))

	case "set-password":
		fs := flag.NewFlagSet("user set-password", flag.ExitOnError)
		password := fs.String("password", "", "New password (required)")
		fs.Parse(os.Args[3:])
		run(app.UserSetPassword(ctx, parseID(fs), *password))

	case "set-role":
		fs := flag.NewFlagSet("user set-role", flag.ExitOnError)
		admin := fs.Bool("admin", false, "Grant the admin role")
		fs.Parse(os.Args[3:])
		run(app.UserSetRole(ctx, parseID(fs), *admin))

	case "delete":
		fs := flag.NewFlagSet("user delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.UserDelete(ctx, parseID(fs)))

	default:
		unknownAction("user")
	}
}

func instanceCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("instance list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.InstanceList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("instance get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.InstanceGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("instance create", flag.ExitOnError)
		name := fs.String("name", "", "Instance name (required)")
		preConfig := fs.String("pre-config", "", "Pre-configuration snippet")
		manual := fs.Bool("manual", false, "Manual configuration mode")
		sites := fs.String("sites", "", "Comma-separated site ids to serve")
		files := fs.String("files", "", "Comma-separated additional file ids to deploy")
		fs.Parse(os.Args[3:])

		siteIDs, err := splitIDs(*sites)
		run(err)
		fileIDs, err := splitIDs(*files)
		run(err)
		run(app.InstanceCreate(ctx, api.InstanceInput{
			Name:              *name,
			PreConfig:         *preConfig,
			IsManualMode:      *manual,
			SiteIDs:           siteIDs,
			AdditionalFileIDs: fileIDs,
		}))

	case "update":
		fs := flag.NewFlagSet("instance update", flag.ExitOnError)
		name := fs.String("name", "", "Instance name")
		preConfig := fs.String("pre-config", "", "Pre-configuration snippet")
		manual := fs.Bool("manual", false, "Manual configuration mode")
		sites := fs.String("sites", "", "Comma-separated site ids to serve")
		files := fs.String("files", "", "Comma-separated additional file ids to deploy")
		fs.Parse(os.Args[3:])

		set := changed(fs)
		var upd cli.InstanceUpdate
		if set["name"] {
			upd.Name = name
		}
		if set["pre-config"] {
			upd.PreConfig = preConfig
		}
		if set["manual"] {
			upd.IsManualMode = manual
		}
		if set["sites"] {
			ids, err := splitIDs(*sites)
			run(err)
			upd.SiteIDs = &ids
		}
		if set["files"] {
			ids, err := splitIDs(*files)
			run(err)
			upd.AdditionalFileIDs = &ids
		}
		run(app.InstanceUpdateCmd(ctx, parseID(fs), upd))

	case "rotate-token":
		fs := flag.NewFlagSet("instance rotate-token", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.InstanceRotateToken(ctx, parseID(fs)))

	case "delete":
		fs := flag.NewFlagSet("instance delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.InstanceDelete(ctx, parseID(fs)))

	default:
		unknownAction("instance")
	}
}

func siteCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("site list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.SiteList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("site get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.SiteGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("site create", flag.ExitOnError)
		name := fs.String("name", "", "Site name (required)")
		origin := fs.String("origin", "", "Origin server URL (required)")
		template := fs.Int64("template", 0, "Config template id (required)")
		cert := fs.Int64("cert", 0, "Certificate id (omit for none)")
		values := fs.String("values", "", "Comma-separated template variable values, in declaration order")
		fs.Parse(os.Args[3:])
		run(app.SiteCreate(ctx, *name, *origin, *template, *cert, splitCSV(*values)))

	case "update":
		fs := flag.NewFlagSet("site update", flag.ExitOnError)
		name := fs.String("name", "", "Site name")
		origin := fs.String("origin", "", "Origin server URL")
		template := fs.Int64("template", 0, "Config template id")
		cert := fs.Int64("cert", 0, "Certificate id (0 clears it)")
		values := fs.String("values", "", "Comma-separated template variable values, in declaration order")
		fs.Parse(os.Args[3:])

		set := changed(fs)
		var upd cli.SiteUpdate
		if set["name"] {
			upd.Name = name
		}
		if set["origin"] {
			upd.Origin = origin
		}
		if set["template"] {
			upd.TemplateID = template
		}
		if set["cert"] {
			upd.CertID = cert
		}
		if set["values"] {
			vals := splitCSV(*values)
			upd.TemplateValues = &vals
		}
		run(app.SiteUpdateCmd(ctx, parseID(fs), upd))

	case "delete":
		fs := flag.NewFlagSet("site delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.SiteDelete(ctx, parseID(fs)))

	default:
		unknownAction("site")
	}
}

func certCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("cert list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.CertList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("cert get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.CertGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("cert create", flag.ExitOnError)
		name := fs.String("name", "", "Certificate name (required)")
		manual := fs.Bool("manual", false, "Manually managed (upload material instead of ACME issuance)")
		domains := fs.String("domains", "", "Comma-separated domains (automatic mode)")
		provider := fs.String("provider", "", "DNS provider (automatic mode)")
		certFile := fs.String("cert-file", "", "PEM certificate path (manual mode)")
		keyFile := fs.String("key-file", "", "PEM private key path (manual mode)")
		intermediateFile := fs.String("intermediate-file", "", "PEM intermediate path (manual mode)")
		csrFile := fs.String("csr-file", "", "PEM CSR path (manual mode)")
		fs.Parse(os.Args[3:])

		input := api.CertInput{
			Name:         *name,
			IsManualMode: *manual,
			Domains:      splitCSV(*domains),
		}
		if *provider != "" {
			input.Provider = provider
		}
		input.Certificate = readOptional(*certFile)
		input.PrivateKey = readOptional(*keyFile)
		input.IntermediateCertificate = readOptional(*intermediateFile)
		input.CSR = readOptional(*csrFile)
		run(app.CertCreate(ctx, input))

	case "update":
		fs := flag.NewFlagSet("cert update", flag.ExitOnError)
		name := fs.String("name", "", "Certificate name")
		manual := fs.Bool("manual", false, "Manually managed")
		domains := fs.String("domains", "", "Comma-separated domains (automatic mode)")
		provider := fs.String("provider", "", "DNS provider (automatic mode)")
		certFile := fs.String("cert-file", "", "PEM certificate path (manual mode)")
		keyFile := fs.String("key-file", "", "PEM private key path (manual mode)")
		intermediateFile := fs.String("intermediate-file", "", "PEM intermediate path (manual mode)")
		csrFile := fs.String("csr-file", "", "PEM CSR path (manual mode)")
		fs.Parse(os.Args[3:])

		set := changed(fs)
		var upd cli.CertUpdate
		if set["name"] {
			upd.Name = name
		}
		if set["manual"] {
			upd.IsManualMode = manual
		}
		if set["domains"] {
			d := splitCSV(*domains)
			upd.Domains = &d
		}
		if set["provider"] {
			upd.Provider = provider
		}
		if set["cert-file"] {
			upd.Certificate = readOptional(*certFile)
		}
		if set["key-file"] {
			upd.PrivateKey = readOptional(*keyFile)
		}
		if set["intermediate-file"] {
			upd.IntermediateCertificate = readOptional(*intermediateFile)
		}
		if set["csr-file"] {
			upd.CSR = readOptional(*csrFile)
		}
		run(app.CertUpdateCmd(ctx, parseID(fs), upd))

	case "renew":
		fs := flag.NewFlagSet("cert renew", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.CertRenew(ctx, parseID(fs)))

	case "delete":
		fs := flag.NewFlagSet("cert delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.CertDelete(ctx, parseID(fs)))

	default:
		unknownAction("cert")
	}
}

func templateCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("template list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.TemplateList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("template get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.TemplateGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("template create", flag.ExitOnError)
		name := fs.String("name", "", "Template name (required)")
		description := fs.String("description", "", "Description")
		contentFile := fs.String("content-file", "", "Path to the template body (required)")
		variables := fs.String("variables", "", "Comma-separated variable names")
		fs.Parse(os.Args[3:])

		content, err := os.ReadFile(*contentFile)
		run(err)
		run(app.TemplateCreate(ctx, api.TemplateInput{
			Name:        *name,
			Description: *description,
			Content:     string(content),
			Variables:   splitCSV(*variables),
		}))

	case "update":
		fs := flag.NewFlagSet("template update", flag.ExitOnError)
		name := fs.String("name", "", "Template name")
		description := fs.String("description", "", "Description")
		contentFile := fs.String("content-file", "", "Path to the template body")
		variables := fs.String("variables", "", "Comma-separated variable names")
		fs.Parse(os.Args[3:])

		set := changed(fs)
		var upd cli.TemplateUpdate
		if set["name"] {
			upd.Name = name
		}
		if set["description"] {
			upd.Description = description
		}
		if set["content-file"] {
			content, err := os.ReadFile(*contentFile)
			run(err)
			body := string(content)
			upd.Content = &body
		}
		if set["variables"] {
			vars := splitCSV(*variables)
			upd.Variables = &vars
		}
		run(app.TemplateUpdateCmd(ctx, parseID(fs), upd))

	case "delete":
		fs := flag.NewFlagSet("template delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.TemplateDelete(ctx, parseID(fs)))

	default:
		unknownAction("template")
	}
}

func fileCmd(ctx context.Context, app *cli.App) {
	switch action() {
	case "list":
		fs := flag.NewFlagSet("file list", flag.ExitOnError)
		page := fs.Int("page", 1, "Page number")
		fs.Parse(os.Args[3:])
		run(app.FileList(ctx, *page))

	case "get":
		fs := flag.NewFlagSet("file get", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		run(app.FileGet(ctx, parseID(fs)))

	case "create":
		fs := flag.NewFlagSet("file create", flag.ExitOnError)
		name := fs.String("name", "", "Record name (required)")
		path := fs.String("path", "", "Local file to upload (required)")
		fs.Parse(os.Args[3:])
		run(app.FileCreate(ctx, *name, *path))

	case "update":
		fs := flag.NewFlagSet("file update", flag.ExitOnError)
		name := fs.String("name", "", "New record name")
		path := fs.String("path", "", "Local file replacing the stored content")
		fs.Parse(os.Args[3:])
		run(app.FileUpdate(ctx, parseID(fs), *name, *path))

	case "download":
		fs := flag.NewFlagSet("file download", flag.ExitOnError)
		out := fs.String("o", "", "Destination path (defaults to the stored filename)")
		fs.Parse(os.Args[3:])
		run(app.FileDownload(ctx, parseID(fs), *out))

	case "delete":
		fs := flag.NewFlagSet("file delete", flag.ExitOnError)
		yes := fs.Bool("y", false, "Skip the confirmation prompt")
		fs.Parse(os.Args[3:])
		app.Yes = *yes
		run(app.FileDelete(ctx, parseID(fs)))

	default:
		unknownAction("file")
	}
}

func readOptional(path string) *string {
	if path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	run(err)
	s := string(content)
	return &s
}

func unknownAction(entity string) {
	fmt.Fprintf(os.Stderr, "Unknown %s action: %s\n", entity, os.Args[2])
	printUsage()
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  cdnctl login [-username NAME] [-password PASS]
  cdnctl logout
  cdnctl whoami
  cdnctl <entity> <action> [flags] [id]

Entities and actions:
  user      list | get | create | rename | set-username | set-password | set-role | delete
  instance  list | get | create | update | rotate-token | delete
  site      list | get | create | update | delete
  cert      list | get | create | update | renew | delete
  template  list | get | create | update | delete
  file      list | get | create | update | download | delete

Common flags:
  -page int  Page number for list actions (default 1)
  -y         Skip confirmation prompts on destructive actions

Environment:
  CDNCTL_API_URL  Admin API base URL (default http://localhost:8080/api/admin)`)
}
