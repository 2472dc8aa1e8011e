package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/sanity-io/litter"

	"github.com/robotalks/radiopanel/pkg/config"
	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l0/driver"
	"github.com/robotalks/radiopanel/pkg/l1"
	env "github.com/robotalks/radiopanel/pkg/l1/env/controller"
	"github.com/robotalks/radiopanel/pkg/panel"
	"github.com/robotalks/radiopanel/pkg/panel/tui"
)

var (
	configFile = os.Getenv("PANEL_CONFIG")
	lightOn    = true
	headless   bool
)

func init() {
	env.SetupFlags()
	driver.SetupFlags()
	flag.StringVar(&configFile, "config", configFile, "YAML config file.")
	flag.BoolVar(&lightOn, "light-on", lightOn, "Turn the light on at start.")
	flag.BoolVar(&headless, "headless", headless, "Run without the terminal display.")
}

func main() {
	flag.Parse()

	envConf, drvConf := env.NewConfig(), driver.NewConfig()
	if configFile != "" {
		f, err := config.Load(configFile)
		if err != nil {
			glog.Exitln(err)
		}
		flags := config.ExplicitFlags(flag.CommandLine)
		f.ApplyDriver(drvConf, flags)
		f.ApplyController(envConf, flags)
		config.ApplyBool(&lightOn, f.Panel.LightOn, "light-on", flags)
		if f.Panel.TUI != nil && !flags["headless"] {
			headless = !*f.Panel.TUI
		}
	}
	if glog.V(1) {
		glog.Infof("driver config: %s", litter.Sdump(drvConf))
		glog.Infof("remote config: %s", litter.Sdump(envConf))
	}

	drv, err := drvConf.Open()
	if err != nil {
		glog.Exitf("open panel: %v", err)
	}
	if lightOn {
		if err := drv.SetLight(true); err != nil {
			glog.Warningf("light on: %v", err)
		}
	}

	loop := fx.NewLoop()
	var reg l1.Registrar
	if envConf.MQTTBrokerURL != "" || envConf.HTTPAddr != "" || envConf.StreamAddr != "" {
		e, err := envConf.NewEnv()
		if err != nil {
			drv.Shutdown()
			glog.Exitln(err)
		}
		glog.Infof("panel %s registered at %v", envConf.Info.Ref.Name(), e.RegistryURLs)
		loop.Add(e)
		reg = e.Registrar
	}
	ctl := panel.NewController(drv, reg)
	loop.Add(ctl)

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("driver", drv), fx.NamedRun("loop", loop))
	if !headless {
		runner.Go(fx.NamedRun("tui", tui.New(ctl, drv)))
	}
	err = runner.Wait()
	glog.Flush()
	if err != nil {
		glog.Exitln(err)
	}
}
