package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/kakimoji/compose"
	"github.com/ByLCY/kakimoji/document"
	"github.com/ByLCY/kakimoji/export"
	"github.com/ByLCY/kakimoji/fonts"
	"github.com/ByLCY/kakimoji/layout"
	"github.com/ByLCY/kakimoji/logging"
	"github.com/ByLCY/kakimoji/project"
	canvasrenderer "github.com/ByLCY/kakimoji/renderer/canvas"
	"github.com/ByLCY/kakimoji/script"
)

type options struct {
	input    string
	output   string
	pdf      string
	project  string
	debug    string
	fontsDir string
	data     any
}

func main() {
	input := flag.String("in", "examples/page.kaki", "描字脚本（.kaki）或工程文件（.zmm）路径")
	output := flag.String("out", "output/page.png", "PNG 或 PDF 输出路径，为空时不导出图像")
	pdfPath := flag.String("pdf", "", "额外输出的 PDF 路径")
	projectPath := flag.String("project", "", "保存工程文件（.zmm）的路径")
	debug := flag.String("debug", "", "排版调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到脚本的 JSON 数据")
	fontsDir := flag.String("fonts", "", "扫描字体的目录")
	verbose := flag.Bool("v", false, "输出详细日志")
	flag.Parse()

	if *verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := options{
		input:    *input,
		output:   *output,
		pdf:      *pdfPath,
		project:  *projectPath,
		debug:    *debug,
		fontsDir: *fontsDir,
	}
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &opts.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(opts); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
}

// run 串联载入、合成与导出。
func run(opts options) error {
	catalog := fonts.NewCatalog()
	if opts.fontsDir != "" {
		n, err := catalog.Scan(opts.fontsDir)
		if err != nil {
			return fmt.Errorf("扫描字体目录失败: %w", err)
		}
		logging.Logger().Info("字体扫描完成", "dir", opts.fontsDir, "count", n)
	}

	doc, meta, err := load(opts, catalog)
	if err != nil {
		return err
	}

	r := canvasrenderer.NewRenderer(catalog)
	if opts.debug != "" {
		if err := writeDebug(doc, r, opts.debug); err != nil {
			return err
		}
	}

	if opts.output != "" || opts.pdf != "" {
		img, err := compose.New(compose.Options{Text: r}).RenderFullResolution(doc)
		if err != nil {
			return fmt.Errorf("合成失败: %w", err)
		}
		for _, path := range []string{opts.output, opts.pdf} {
			if path == "" {
				continue
			}
			if err := ensureDir(path); err != nil {
				return err
			}
			if err := export.Save(path, img, meta); err != nil {
				return err
			}
			fmt.Printf("已导出：%s\n", path)
		}
	}

	if opts.project != "" {
		if err := ensureDir(opts.project); err != nil {
			return err
		}
		if err := project.Save(opts.project, doc, catalog); err != nil {
			return err
		}
		fmt.Printf("已保存工程：%s\n", opts.project)
	}
	return nil
}

func load(opts options, catalog *fonts.Catalog) (*document.Document, export.Meta, error) {
	if strings.EqualFold(filepath.Ext(opts.input), ".zmm") {
		doc, err := project.Load(opts.input, catalog)
		if err != nil {
			return nil, export.Meta{}, err
		}
		title := strings.TrimSuffix(filepath.Base(opts.input), filepath.Ext(opts.input))
		return doc, export.Meta{Title: title, Creator: "kakimoji"}, nil
	}
	res, err := script.BuildFile(opts.input, script.BuildOptions{Data: opts.data, Fonts: catalog})
	if err != nil {
		return nil, export.Meta{}, fmt.Errorf("构建脚本失败: %w", err)
	}
	return res.Document, res.Meta, nil
}

func writeDebug(doc *document.Document, m layout.Metrics, debugPath string) error {
	if err := ensureDir(debugPath); err != nil {
		return err
	}
	entries := make([]layout.DebugEntry, 0, len(doc.Texts()))
	for i, t := range doc.Texts() {
		entries = append(entries, layout.NewDebugEntry(i, t.LayoutParams(), m))
	}
	if err := layout.WriteDebugJSON(entries, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return nil
}
