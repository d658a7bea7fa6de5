// Copyright 2026, Chef.  All rights reserved.
// https://github.com/q191201771/lalcodec
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/q191201771/lalcodec/pkg/base"
	"github.com/q191201771/lalcodec/pkg/httpflv"
	"github.com/q191201771/lalcodec/pkg/logic"
	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
	"golang.org/x/sync/errgroup"
)

// 读取一个或多个flv文件，每个文件模拟一路输入流，解析出编码参数
//
// 结束时打印每路流的编码参数，以及新订阅者加入时会收到的metadata、seq header
//
// Example:
//   ./bin/codecprobe -c ./conf/lalcodec.conf.json -i ./testdata/test.flv
//   ./bin/codecprobe -c ./conf/lalcodec.conf.json -i a.flv,b.flv -app live -re -loop
//   ./bin/codecprobe -c ./conf/lalcodec.conf.json -i a.flv -o ./out
//

var defaultConfFilenameList = []string{
	filepath.FromSlash("lalcodec.conf.json"),
	filepath.FromSlash("./conf/lalcodec.conf.json"),
	filepath.FromSlash("../conf/lalcodec.conf.json"),
	filepath.FromSlash("../../conf/lalcodec.conf.json"),
}

type Flags struct {
	confFile  string
	inputs    []string
	appName   string
	isPacing  bool
	isLoop    bool
	outputDir string
}

func main() {
	defer nazalog.Sync()

	flags := parseFlag()

	rawContent := base.WrapReadConfigFile(flags.confFile, defaultConfFilenameList, nil)
	config, err := logic.LoadConfAndInitLog(rawContent)
	if err != nil {
		base.Exitf("load conf failed. err=%+v", err)
	}
	base.LogoutStartInfo()

	sm := logic.NewSessionManager(config)
	handler := logic.NewCodecHandler(sm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go base.RunSignalHandler(ctx, func() {
		nazalog.Infof("recv signal, exit.")
		cancel()
	})
	go sm.RunLoop(ctx)

	var httpApi *logic.HttpApiServer
	if config.HttpApiConfig.Enable {
		httpApi = logic.NewHttpApiServer(config, sm)
		if err = httpApi.Listen(); err != nil {
			base.Exitf("listen http api failed. err=%+v", err)
		}
		go func() {
			if err := httpApi.RunLoop(); err != nil {
				nazalog.Errorf("http api run loop failed. err=%+v", err)
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, filename := range flags.inputs {
		filename := filename
		g.Go(func() error {
			return probe(gctx, handler, sm, filename, flags, httpApi == nil)
		})
	}
	if err = g.Wait(); err != nil {
		nazalog.Errorf("probe failed. err=%+v", err)
	}

	// 开启了http api时，等待信号退出，期间可以查询编码参数
	if httpApi != nil {
		<-ctx.Done()
		dctx, dcancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := httpApi.Dispose(dctx); err != nil {
			nazalog.Warnf("dispose http api failed. err=%+v", err)
		}
		dcancel()
	}
	sm.Dispose()
	nazalog.Infof("bye.")
}

func probe(ctx context.Context, handler *logic.CodecHandler, sm *logic.SessionManager, filename string, flags Flags, disconnect bool) error {
	sessionId := base.GenUkFlvFile()
	nazalog.Infof("[%s] start probe. file=%s", sessionId, filename)

	pump := httpflv.NewFlvFilePump(func(option *httpflv.FlvFilePumpOption) {
		option.IsPacing = flags.isPacing
		option.IsRecursive = flags.isLoop
	})
	err := pump.Pump(filename, func(tag httpflv.Tag) bool {
		// metadata解析失败时 OnMsg 内部已经打印日志，继续处理后续的tag
		_ = handler.OnMsg(sessionId, flags.appName, tag.ToRtmpMsg())
		return ctx.Err() == nil
	})
	if err != nil {
		return fmt.Errorf("[%s] pump failed. file=%s, err=%w", sessionId, filename, err)
	}

	s := sm.Get(sessionId)
	if s == nil {
		nazalog.Warnf("[%s] no tag in file. file=%s", sessionId, filename)
		return nil
	}

	stat := s.Stat()
	b, _ := json.MarshalIndent(stat, "", "  ")
	fmt.Printf("%s\n%s\n", filename, string(b))

	msgs := s.Context().BootstrapMsgs()
	for _, msg := range msgs {
		fmt.Printf("  bootstrap. csid=%d, type=%d, ts=%d, len=%d\n",
			msg.Header.Csid, msg.Header.MsgTypeId, msg.Header.TimestampAbs, msg.Header.MsgLen)
	}

	if flags.outputDir != "" {
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".bootstrap.flv"
		if err = writeBootstrap(filepath.Join(flags.outputDir, name), msgs); err != nil {
			return fmt.Errorf("[%s] write bootstrap failed. err=%w", sessionId, err)
		}
	}

	if disconnect {
		handler.OnDisconnect(sessionId)
	}
	return nil
}

func writeBootstrap(filename string, msgs []base.RtmpMsg) (err error) {
	var ffw httpflv.FlvFileWriter
	if err = ffw.Open(filename); err != nil {
		return
	}
	defer func() {
		if derr := ffw.Dispose(); err == nil {
			err = derr
		}
	}()
	if err = ffw.WriteFlvHeader(); err != nil {
		return
	}
	for _, msg := range msgs {
		if err = ffw.WriteTag(httpflv.RtmpMsg2FlvTag(msg)); err != nil {
			return
		}
	}
	nazalog.Infof("write bootstrap done. file=%s, count=%d", filename, len(msgs))
	return
}

func parseFlag() Flags {
	binInfoFlag := flag.Bool("v", false, "show bin info")
	cf := flag.String("c", "", "specify conf file")
	i := flag.String("i", "", "specify flv files, separated by comma")
	app := flag.String("app", "live", "specify app name, used to match app level config")
	re := flag.Bool("re", false, "read input at native frame rate")
	loop := flag.Bool("loop", false, "loop over the input")
	o := flag.String("o", "", "specify output dir, write bootstrap messages of each input to a flv file")
	flag.Parse()
	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.LalcodecFullInfo)
		os.Exit(0)
	}

	var inputs []string
	for _, item := range strings.Split(*i, ",") {
		if item = strings.TrimSpace(item); item != "" {
			inputs = append(inputs, item)
		}
	}
	if len(inputs) == 0 {
		flag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  %s -c ./conf/lalcodec.conf.json -i ./testdata/test.flv
  %s -c ./conf/lalcodec.conf.json -i a.flv,b.flv -app live -re -loop
  %s -c ./conf/lalcodec.conf.json -i a.flv -o ./out
`, os.Args[0], os.Args[0], os.Args[0])
		base.Exitf("")
	}

	return Flags{
		confFile:  *cf,
		inputs:    inputs,
		appName:   *app,
		isPacing:  *re,
		isLoop:    *loop,
		outputDir: *o,
	}
}
