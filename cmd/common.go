/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/valpere/mortgate/internal/config"
	"github.com/valpere/mortgate/internal/engine"
)

// buildEngines constructs the failover candidate list for the configured
// mode: [primary, secondary] for remote, [local] for local.
func buildEngines(cfg *config.Config, logger *log.Logger) ([]engine.Engine, error) {
	switch cfg.Mode {
	case config.ModeRemote:
		primary := engine.NewSlot(engine.RolePrimary,
			cfg.Primary.URL, cfg.Primary.Key, cfg.Primary.Model,
			cfg.Primary.Temperature, cfg.Primary.ContextEnabled, cfg.ContextDepth)
		secondary := engine.NewSlot(engine.RoleSecondary,
			cfg.Secondary.URL, cfg.Secondary.Key, cfg.Secondary.Model,
			cfg.Secondary.Temperature, cfg.Secondary.ContextEnabled, cfg.ContextDepth)
		return []engine.Engine{
			engine.NewRemote(primary, cfg.Separator, logger),
			engine.NewRemote(secondary, cfg.Separator, logger),
		}, nil
	case config.ModeLocal:
		local := engine.NewSlot(engine.RoleLocal,
			cfg.Local.URL, cfg.Local.Key, cfg.Local.Model,
			cfg.Local.Temperature, cfg.Local.ContextEnabled, cfg.ContextDepth)
		return []engine.Engine{
			engine.NewLocal(local, cfg.Separator, logger),
		}, nil
	default:
		return nil, fmt.Errorf("unknown mode: %s", cfg.Mode)
	}
}
