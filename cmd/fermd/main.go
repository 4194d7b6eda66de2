// Copyright (C) 2025 Josh Simonot
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// fermd runs the fermentation-chamber thermal control core against a
// physical (phidgets + Modbus) chamber and exposes its host link and
// diagnostics over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"fermd/internal/config"
	"fermd/internal/datalogger"
	"fermd/internal/hal/modbusprobe"
	halphidgets "fermd/internal/hal/phidgets"
	"fermd/internal/hostlink"
	"fermd/internal/nvstore"
	bridgemgr "fermd/internal/phidgets"
	"fermd/internal/tempcontrol"
	"fermd/internal/tempcontrol/actuator"
	tcclock "fermd/internal/tempcontrol/clock"
	"fermd/internal/tempcontrol/sensor"
	"fermd/pkg/appctx"
	"fermd/pkg/eventbus"
	"fermd/pkg/logger"
	"fermd/pkg/modbus"
	"fermd/pkg/rootserv"
	"fermd/pkg/service"
	"fermd/pkg/sysmon"
)

const tickInterval = time.Second

// tickerService drives Controller.Tick() at 1 Hz, the scheduling contract
// spec.md §5 assumes.
type tickerService struct {
	controller *tempcontrol.Controller
	log        *logger.Logger
}

func (t *tickerService) Run(ctx context.Context) {
	t.log.Info("Running...")
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.log.Info("Stopped")
			return
		case <-ticker.C:
			t.controller.Tick()
		}
	}
}

func main() {
	configPath := flag.String("config", "fermd.config.json", "path to JSON config file")
	logPath := flag.String("log", "fermd.log", "path to log file")
	flag.Parse()

	if err := logger.Init(*logPath); err != nil {
		panic(err)
	}
	defer logger.Close()

	log := logger.New("Main      ")
	cfg := config.LoadFile(*configPath)
	cfg.EventBus = eventbus.New()

	ctx, cancel := appctx.New()

	nv, err := nvstore.NewFileStore(cfg.NVStore.Dir)
	if err != nil {
		log.Fatal("nvstore: %v", err)
	}

	modbusCfg := modbus.LoadConfig(cfg.Modbus.ConfigPath)
	modbusClient := modbus.NewClient(ctx, modbusCfg)

	beerBasic := modbusprobe.NewProbe(modbusClient, cfg.Modbus.BeerRegister)
	fridgeBasic := modbusprobe.NewProbe(modbusClient, cfg.Modbus.FridgeRegister)
	beerSensor := sensor.NewFiltered(beerBasic)
	fridgeSensor := sensor.NewFiltered(fridgeBasic)

	var ambientSensor tempcontrol.BasicTempSensor
	if cfg.Modbus.AmbientRegister != "" {
		ambientSensor = modbusprobe.NewProbe(modbusClient, cfg.Modbus.AmbientRegister)
	}

	heaterRelay := halphidgets.NewDigitalOutput(cfg.Phidgets.HTTPAddr, "heater", cfg.Phidgets.HeaterChannel, cfg.Phidgets.HeaterHubPort)
	coolerRelay := halphidgets.NewDigitalOutput(cfg.Phidgets.HTTPAddr, "cooler", cfg.Phidgets.CoolerChannel, cfg.Phidgets.CoolerHubPort)

	wallClock := tcclock.Wall{}
	// Compressor protection: several minutes minimum on/off, per spec.md
	// §4.5's "typical: several minutes" guidance.
	coolerLimiter := actuator.NewOnOffLimiter(coolerRelay, wallClock, 5*time.Minute, 5*time.Minute)

	defaults := tempcontrol.DefaultControlConstants()
	heaterPWM := actuator.NewPWM(heaterRelay, defaults.HeatPwmPeriod)
	coolerPWM := actuator.NewPWM(coolerLimiter, defaults.CoolPwmPeriod)

	link := hostlink.New()

	deps := tempcontrol.Deps{
		Clock:             tcclock.NewSystem(),
		BeerSensor:        beerSensor,
		FridgeSensor:      fridgeSensor,
		AmbientSensor:     ambientSensor,
		Heater:            tempcontrol.WrapPWM(heaterPWM),
		Cooler:            tempcontrol.WrapPWM(coolerPWM),
		NVStore:           nv,
		HostLink:          link,
		EventBus:          cfg.EventBus,
		ConstantsSeedPath: cfg.NVStore.ConstantsSeedPath,
	}

	if cfg.Phidgets.HasFan {
		deps.Fan = halphidgets.NewDigitalOutput(cfg.Phidgets.HTTPAddr, "fan", cfg.Phidgets.FanChannel, cfg.Phidgets.FanHubPort)
	}
	if cfg.Phidgets.HasLight {
		deps.Light = halphidgets.NewDigitalOutput(cfg.Phidgets.HTTPAddr, "light", cfg.Phidgets.LightChannel, cfg.Phidgets.LightHubPort)
	}

	var doorInput *halphidgets.DigitalInput
	if cfg.Phidgets.HasDoor {
		webhookURL := "http://" + cfg.Phidgets.WebhookAddr + "/phidgets/door"
		doorInput, err = halphidgets.NewDigitalInput(cfg.Phidgets.HTTPAddr, "door", cfg.Phidgets.DoorChannel, cfg.Phidgets.DoorHubPort, webhookURL)
		if err != nil {
			log.Error("door sensor registration failed: %v", err)
		} else {
			deps.Door = doorInput
		}
	}

	controller := tempcontrol.New(deps)

	dataLog := datalogger.New(controller, cfg.EventBus, cfg.DataLogger.EmonCMSAddr, cfg.DataLogger.EmonCMSApiKey,
		cfg.DataLogger.Node, time.Duration(cfg.DataLogger.IntervalSeconds)*time.Second)

	root := rootserv.New(cfg.HostLink.HTTPAddr)
	root.Attach("/annotations", "live fridge annotation feed", http.HandlerFunc(link.ServeWebSocket))
	root.Attach("/logger", "log viewer", logger.WebService())
	root.Attach("/sysmon", "system diagnostics", sysmon.New())
	if doorInput != nil {
		root.Attach("/phidgets", "phidgets webhook receiver", http.HandlerFunc(doorInput.Webhook))
	}

	bridge := bridgemgr.New(cfg)

	services := []service.Runnable{
		&tickerService{controller: controller, log: logger.New("Ticker    ")},
		dataLog,
		root,
		bridge,
	}

	exitCh := service.Start(ctx, cancel, services)
	code := <-exitCh
	os.Exit(code)
}
