// Command edbo queries the EDBO Opendata Registry API from the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	edbo "github.com/edbo-tools/edbo-go"
	xlog "github.com/edbo-tools/edbo-go/internal/log"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const usageText = `Usage: edbo <command> [flags]

Commands:
  universities   list universities by region and category
  university     show one university by id
  institutions   list secondary institutions by region and category
  school         show one institution by id
  snapshot       fetch region listings into a local store (-list/-show read it back)
  regions        print the region code table
  version        print version and exit

Run 'edbo <command> -h' for command flags.`

func main() {
	xlog.Configure(xlog.Config{Service: "edbo"})
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usageText)
		return 2
	}

	switch args[0] {
	case "universities":
		return cmdUniversities(args[1:])
	case "university":
		return cmdUniversity(args[1:])
	case "institutions":
		return cmdInstitutions(args[1:])
	case "school":
		return cmdSchool(args[1:])
	case "snapshot":
		return cmdSnapshot(args[1:])
	case "regions":
		return cmdRegions()
	case "version":
		fmt.Printf("edbo %s (commit: %s, built: %s)\n", version, commit, buildDate)
		return 0
	case "-h", "--help", "help":
		fmt.Println(usageText)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "edbo: unknown command %q\n\n%s\n", args[0], usageText)
		return 2
	}
}

type clientFlags struct {
	baseURL string
	timeout time.Duration
	asJSON  bool
}

func registerClientFlags(fs *flag.FlagSet) *clientFlags {
	cf := &clientFlags{}
	fs.StringVar(&cf.baseURL, "base-url", "", "registry endpoint (default: production registry)")
	fs.DurationVar(&cf.timeout, "timeout", 15*time.Second, "per-request timeout")
	fs.BoolVar(&cf.asJSON, "json", false, "print raw JSON instead of a summary")
	return cf
}

func (cf *clientFlags) client() (*edbo.Client, error) {
	return edbo.NewWithOptions(edbo.Options{
		BaseURL: cf.baseURL,
		Timeout: cf.timeout,
	})
}

func cmdUniversities(args []string) int {
	fs := flag.NewFlagSet("universities", flag.ExitOnError)
	cf := registerClientFlags(fs)
	region := fs.Int("region", 0, "region code (see 'edbo regions')")
	category := fs.Int("category", int(edbo.CategoryHigherEducation), "university category code")
	_ = fs.Parse(args)

	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	params := edbo.NewSearchParams().
		WithRegion(edbo.Region(*region)).
		WithUniversityCategory(edbo.UniversityCategory(*category))

	list, err := client.Universities(context.Background(), params)
	if err != nil {
		return fail(err)
	}

	if cf.asJSON {
		return printJSON(list)
	}
	for _, u := range list {
		fmt.Printf("%s\t%s\n", u.ID, u.Name)
	}
	fmt.Fprintf(os.Stderr, "%d universities\n", len(list))
	return 0
}

func cmdUniversity(args []string) int {
	fs := flag.NewFlagSet("university", flag.ExitOnError)
	cf := registerClientFlags(fs)
	id := fs.Int("id", 0, "university id")
	_ = fs.Parse(args)

	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	u, err := client.UniversityByID(context.Background(), *id)
	if err != nil {
		return fail(err)
	}

	if cf.asJSON {
		return printJSON(u)
	}
	fmt.Printf("%s (%s)\n", u.Name, u.ShortName)
	fmt.Printf("  id:       %s\n", u.ID)
	fmt.Printf("  region:   %s\n", u.RegionName)
	fmt.Printf("  address:  %s\n", u.Address)
	fmt.Printf("  site:     %s\n", u.Site)
	fmt.Printf("  branches: %d, faculties: %d, speciality licenses: %d\n",
		len(u.Branches), len(u.Faculties), len(u.SpecialityLicenses))
	return 0
}

func cmdInstitutions(args []string) int {
	fs := flag.NewFlagSet("institutions", flag.ExitOnError)
	cf := registerClientFlags(fs)
	region := fs.Int("region", 0, "region code (see 'edbo regions')")
	category := fs.Int("category", int(edbo.CategoryGeneralSecondary), "institution category code")
	_ = fs.Parse(args)

	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	params := edbo.NewSearchParams().
		WithRegion(edbo.Region(*region)).
		WithInstitutionCategory(edbo.InstitutionCategory(*category))

	list, err := client.Institutions(context.Background(), params)
	if err != nil {
		return fail(err)
	}

	if cf.asJSON {
		return printJSON(list)
	}
	for _, inst := range list {
		fmt.Printf("%s\t%s\n", inst.ID, inst.Name)
	}
	fmt.Fprintf(os.Stderr, "%d institutions\n", len(list))
	return 0
}

func cmdSchool(args []string) int {
	fs := flag.NewFlagSet("school", flag.ExitOnError)
	cf := registerClientFlags(fs)
	id := fs.Int("id", 0, "institution id")
	_ = fs.Parse(args)

	client, err := cf.client()
	if err != nil {
		return fail(err)
	}

	inst, err := client.SchoolByID(context.Background(), *id)
	if err != nil {
		return fail(err)
	}

	if cf.asJSON {
		return printJSON(inst)
	}
	fmt.Printf("%s (%s)\n", inst.Name, inst.ShortName)
	fmt.Printf("  id:      %s\n", inst.ID)
	fmt.Printf("  region:  %s\n", inst.RegionName)
	fmt.Printf("  address: %s\n", inst.Address)
	fmt.Printf("  type:    %s\n", inst.TypeName)
	return 0
}

func cmdRegions() int {
	for _, r := range edbo.Regions() {
		fmt.Printf("%3d  %s\n", int(r), r.Name())
	}
	return 0
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "edbo: %v\n", err)
	return 1
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fail(err)
	}
	return 0
}
