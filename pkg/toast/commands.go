package toast

import "github.com/vango-dev/memokit/pkg/hooks"

// UseCommands returns the provider's commands wrapped in auto callbacks on
// inst, so the component holds references that never change even if it is
// later given a different provider.
func UseCommands(inst *hooks.Instance, p *Provider) Commands {
	cmds := p.Commands()
	return Commands{
		Show: hooks.UseAutoCallback(inst, cmds.Show),
		Hide: hooks.UseAutoCallback(inst, cmds.Hide),
	}
}
