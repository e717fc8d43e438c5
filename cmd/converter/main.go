package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"csv2coam/internal/app"
	"csv2coam/internal/coam"
	"csv2coam/pkg/logging"
)

func main() {
	var (
		configPath string
		outPath    string
		graph      bool
	)
	flag.StringVar(&configPath, "config", "configs/config.yaml", "配置文件路径")
	flag.StringVar(&outPath, "o", "", "输出 JSON 路径，默认与输入同名")
	flag.BoolVar(&graph, "graph", false, "转换后写入 neo4j")
	overrides := make(map[string]*string)
	for _, key := range coam.Keys() {
		overrides[key] = flag.String(flagName(key), "", "覆盖业务参数 "+key)
	}
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	cfg, err := app.LoadConfigOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if graph {
		cfg.Export.Enabled = true
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := app.NewService(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建服务失败: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close(ctx)

	set := make(map[string]string)
	for key, v := range overrides {
		if s := strings.TrimSpace(*v); s != "" {
			set[key] = s
		}
	}
	report, err := svc.Convert(ctx, app.Request{
		Input:     input,
		Output:    outPath,
		Overrides: coam.SettingsFromMap(set),
	})
	if err != nil {
		if errors.Is(err, app.ErrNoValidRows) {
			fmt.Fprintf(os.Stderr, "%v\n", app.ErrNoValidRows)
		} else {
			fmt.Fprintf(os.Stderr, "转换失败: %v\n", err)
		}
		_ = svc.Close(ctx)
		os.Exit(1)
	}
	fmt.Print(summary(report))
}

// flagName 把 sys_flag 形式的键转换为 -sys-flag。
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func summary(r app.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "转换完成: %s -> %s (编码 %s)\n", r.Input, r.Output, r.Encoding)
	fmt.Fprintf(&b, "  有效行: %d，跳过: %d\n", r.Rows, r.Dropped)
	fmt.Fprintf(&b, "  监测对象: %d\n", r.Objects)
	fmt.Fprintf(&b, "  监测点位: %d\n", r.Points)
	fmt.Fprintf(&b, "  设备: %d\n", r.Equipments)
	fmt.Fprintf(&b, "  绑定关系: %d\n", r.Relations)
	return b.String()
}

func usage() {
	fmt.Println("用法: converter [-config configs/config.yaml] [-o out.json] [-graph] [-region-code ... -sys-flag ...] <input.csv|input.xlsx>")
}
