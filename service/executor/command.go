package executor

import (
	"fmt"
	"strings"

	"github.com/elC0mpa/cloud-doctor/model"
)

// Command renders the gcloud command for an action. Every command is
// scoped to the project and runs non-interactively. Unknown action types
// produce a comment instead of a command.
func Command(action model.PlannedAction, project string) string {
	scope := fmt.Sprintf("--project=%s --quiet", project)
	name := action.ResourceName
	loc := action.Location

	switch action.Type {
	case model.ActionStopVM:
		return fmt.Sprintf("gcloud compute instances stop %s --zone=%s %s", name, loc, scope)
	case model.ActionRightsizeVM:
		target := ""
		if action.Rightsize != nil {
			target = action.Rightsize.TargetMachineType
		}
		return strings.Join([]string{
			fmt.Sprintf("gcloud compute instances stop %s --zone=%s %s", name, loc, scope),
			fmt.Sprintf("gcloud compute instances set-machine-type %s --zone=%s --machine-type=%s %s", name, loc, target, scope),
			fmt.Sprintf("gcloud compute instances start %s --zone=%s %s", name, loc, scope),
		}, " && ")
	case model.ActionDeleteDisk:
		// describe fails when the disk is already gone, so a re-run is a no-op
		return fmt.Sprintf("gcloud compute disks describe %s --zone=%s --project=%s --format=none && gcloud compute disks delete %s --zone=%s %s",
			name, loc, project, name, loc, scope)
	case model.ActionDeleteDatabase:
		return fmt.Sprintf("gcloud sql instances delete %s %s # region: %s", name, scope, loc)
	case model.ActionDeleteService:
		return fmt.Sprintf("gcloud run services delete %s --region=%s %s", name, loc, scope)
	}
	return fmt.Sprintf("# no command for %s on %s (%s)", action.Type, name, loc)
}
