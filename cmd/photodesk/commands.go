package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/photodesk/photodesk/internal/collection"
	"github.com/photodesk/photodesk/internal/editing"
	"github.com/photodesk/photodesk/internal/gateway"
	"github.com/photodesk/photodesk/internal/mutation"
	"github.com/photodesk/photodesk/internal/sharing"
	"github.com/photodesk/photodesk/internal/watermark"
)

func runList(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	search := fs.String("search", "", "search text")
	project := fs.String("project", "", "project id")
	tags := fs.String("tags", "", "comma-separated required tags")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt.Store.Hydrate(ctx)

	patch := collection.FilterPatch{}
	if *search != "" {
		patch.Search = search
	}
	if *project != "" {
		patch.ProjectID = project
	}
	if *tags != "" {
		list := strings.Split(*tags, ",")
		patch.Tags = &list
	}

	if err := rt.Store.SetFilter(ctx, patch); err != nil {
		return err
	}
	if *page > 1 {
		if err := rt.Store.SetPage(ctx, *page); err != nil {
			return err
		}
	}

	state := rt.Store.PageState()
	fmt.Printf("page %d/%d (%d images total)\n", state.Page, state.Pages, state.Total)
	for _, img := range rt.Store.Images() {
		processed := " "
		if img.IsProcessed {
			processed = "*"
		}
		fmt.Printf("%s %-24s %s  %dx%d  %s\n", processed, img.ID, img.Name, img.Width, img.Height, strings.Join(img.Tags, ","))
	}
	return nil
}

func runUpload(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	project := fs.String("project", "", "project id")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("no files given")
	}

	files := make([]gateway.UploadFile, 0, fs.NArg())
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, gateway.UploadFile{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})
	}

	opts := mutation.UploadOptions{ProjectID: *project}
	if *tags != "" {
		opts.Tags = strings.Split(*tags, ",")
	}

	outcome, err := rt.Mutations.Upload(ctx, files, opts)
	if outcome != nil {
		for _, issue := range outcome.Rejected {
			fmt.Printf("rejected %s: %s\n", issue.Name, issue.Message)
		}
		for _, img := range outcome.Uploaded {
			fmt.Printf("uploaded %s as %s\n", img.Name, img.ID)
		}
	}
	return err
}

func runDelete(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma-separated image ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ids == "" {
		return fmt.Errorf("no ids given")
	}

	return rt.Mutations.BatchDelete(ctx, strings.Split(*ids, ","))
}

func runProcess(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma-separated image ids")
	mode := fs.String("mode", "auto", "processing mode: auto or manual")
	preset := fs.String("preset", "natural", "preset for auto mode")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ids == "" {
		return fmt.Errorf("no ids given")
	}

	options := map[string]any{}
	if *mode == "auto" {
		options["preset"] = *preset
	}
	return rt.Mutations.BatchProcess(ctx, strings.Split(*ids, ","), *mode, options)
}

func runEdit(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.String("id", "", "image id")
	preset := fs.String("preset", "", "preset id (auto mode)")
	brightness := fs.Int("brightness", 0, "brightness [-100,100]")
	contrast := fs.Int("contrast", 0, "contrast [-100,100]")
	saturation := fs.Int("saturation", 0, "saturation [-100,100]")
	temperature := fs.Int("temperature", 0, "temperature [-100,100]")
	sharpness := fs.Int("sharpness", 0, "sharpness [0,100]")
	shadows := fs.Int("shadows", 0, "shadows [-100,100]")
	highlights := fs.Int("highlights", 0, "highlights [-100,100]")
	quality := fs.Int("quality", 90, "output quality [10,100], step 5")
	format := fs.String("format", "jpeg", "output format: jpeg, png, webp")
	preview := fs.Bool("preview", false, "request a preview before committing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("no image id given")
	}

	session := rt.EditImage(*id)
	defer session.Close()

	if *preset != "" {
		if err := session.SelectPreset(ctx, *preset); err != nil {
			return err
		}
	} else {
		vec := editing.AdjustmentVector{
			Brightness:  *brightness,
			Contrast:    *contrast,
			Saturation:  *saturation,
			Temperature: *temperature,
			Sharpness:   *sharpness,
			Shadows:     *shadows,
			Highlights:  *highlights,
			Output: editing.Output{
				Format:  editing.OutputFormat(*format),
				Quality: *quality,
			},
		}
		if err := session.Stage(vec); err != nil {
			return err
		}
		if *preview {
			if err := session.Settle(ctx); err != nil {
				return err
			}
		}
	}

	if *preview {
		url, key := session.Preview()
		fmt.Printf("preview ready: %s (display key %d)\n", url, key)
	}

	if err := session.Commit(ctx); err != nil {
		return err
	}
	fmt.Println("edit committed")
	return nil
}

func runShare(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	ids := fs.String("ids", "", "comma-separated image ids")
	title := fs.String("title", "", "share title")
	description := fs.String("description", "", "share description")
	password := fs.String("password", "", "optional password")
	expires := fs.Int("expires-days", -1, "expiration in days, 0 = never, -1 = disabled")
	maxAccess := fs.Int("max-access", 0, "optional max access count")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ids == "" {
		return fmt.Errorf("no ids given")
	}

	settings := sharing.Settings{
		Title:       *title,
		Description: *description,
	}
	if *password != "" {
		settings.IsPasswordProtected = true
		settings.Password = *password
	}
	if *expires >= 0 {
		settings.IsExpirationEnabled = true
		settings.ExpirationDays = *expires
	}
	if *maxAccess > 0 {
		settings.IsMaxAccessEnabled = true
		settings.MaxAccess = *maxAccess
	}

	session := rt.ShareDialog()
	result, err := session.Create(ctx, strings.Split(*ids, ","), settings)
	if err != nil {
		return err
	}
	fmt.Printf("share created: %s\n", result.URL)
	return nil
}

func runWatermark(ctx context.Context, rt *Runtime, args []string) error {
	fs := flag.NewFlagSet("watermark", flag.ContinueOnError)
	position := fs.String("position", "", "anchor position")
	opacity := fs.Float64("opacity", 0, "opacity [0.1,1]")
	size := fs.Int("size", 0, "size [5,50]")
	padding := fs.Int("padding", -1, "padding [0,100]")
	autoApply := fs.Bool("auto-apply", false, "apply watermark on upload")
	if err := fs.Parse(args); err != nil {
		return err
	}

	current, err := rt.Watermark.Load(ctx)
	if err != nil {
		return err
	}

	if *position == "" && *opacity == 0 && *size == 0 && *padding < 0 {
		fmt.Printf("position=%s opacity=%.2f size=%d padding=%d auto-apply=%t\n",
			current.Position, current.Opacity, current.Size, current.Padding, current.AutoApply)
		return nil
	}

	next := *current
	if *position != "" {
		next.Position = watermark.Position(*position)
	}
	if *opacity != 0 {
		next.Opacity = *opacity
	}
	if *size != 0 {
		next.Size = *size
	}
	if *padding >= 0 {
		next.Padding = *padding
	}
	next.AutoApply = *autoApply

	updated, err := rt.Watermark.Update(ctx, next)
	if err != nil {
		return err
	}
	fmt.Printf("watermark updated: position=%s opacity=%.2f\n", updated.Position, updated.Opacity)
	return nil
}

func runSweep(ctx context.Context, rt *Runtime) error {
	removed, err := rt.Snapshots.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d expired snapshots\n", removed)
	return nil
}
