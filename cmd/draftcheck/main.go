// draftcheck validates a post draft written as YAML, using the same rules as
// the create page, and can submit it to the backend.
//
//	draftcheck [-submit] [-image cover.png] draft.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/blogfront/internal/api"
	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/debemdeboas/blogfront/internal/draft"
)

// EnvToken holds the access token used by -submit.
const EnvToken = "BLOGFRONT_TOKEN"

// draftFile is the on-disk form. Tags are a list instead of the comma
// separated text typed into the form, so a single tag cannot hold a comma.
type draftFile struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Contents    string   `yaml:"contents"`
	Tags        []string `yaml:"tags"`
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	fieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

func loadDraft(path string) (draft.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return draft.Draft{}, err
	}

	var f draftFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return draft.Draft{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, tag := range f.Tags {
		if strings.Contains(tag, ",") {
			return draft.Draft{}, fmt.Errorf("%s: tag %q contains a comma", path, tag)
		}
	}

	return draft.Draft{
		Title:       f.Title,
		Description: f.Description,
		Contents:    f.Contents,
		Tags:        strings.Join(f.Tags, ", "),
	}, nil
}

func attachImage(d *draft.Draft, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoded, err := draft.EncodeImage(file, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	d.Image = encoded
	return nil
}

// report prints every violation in field order and returns whether the
// draft passed.
func report(res draft.Result) bool {
	if res.OK() {
		fmt.Println(okStyle.Render("Draft is valid"))
		return true
	}

	fields := make([]string, 0, len(res))
	for f := range res {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Println(errStyle.Render(fmt.Sprintf("Draft has %d problem(s):", len(res))))
	for _, f := range fields {
		fmt.Println("  " + fieldStyle.Render(f+":") + " " + res[f])
	}
	return false
}

func submit(d draft.Draft) error {
	token := os.Getenv(EnvToken)
	if token == "" {
		return fmt.Errorf("%s is not set", EnvToken)
	}

	if err := config.LoadConfig("config.yaml"); err != nil {
		return err
	}
	client := api.New(config.AppConfig.Backend.URL, api.WithTimeout(config.AppConfig.Backend.Timeout))

	resp, err := client.CreatePost(context.Background(), token, d.Payload())
	if err != nil {
		return fmt.Errorf("%s", api.UserMessage(err, config.ErrCreateBlog))
	}

	fmt.Println(infoStyle.Render(fmt.Sprintf("Created post %s at %s/blogs/%s", resp.BlogID, client.BaseURL(), resp.BlogID)))
	return nil
}

func main() {
	doSubmit := flag.Bool("submit", false, "create the post on the backend when the draft is valid")
	image := flag.String("image", "", "cover image to attach")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-submit] [-image file] draft.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	config.LoadDotEnv()

	d, err := loadDraft(flag.Arg(0))
	if err != nil {
		fmt.Println(errStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}

	res := draft.Validate(d)
	if *image != "" {
		if err := attachImage(&d, *image); err != nil {
			res["image"] = err.Error()
		}
	}

	if !report(res) {
		os.Exit(1)
	}

	if !*doSubmit {
		return
	}
	if err := submit(d); err != nil {
		fmt.Println(errStyle.Render("Error: " + err.Error()))
		os.Exit(1)
	}
}
