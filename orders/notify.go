package orders

import "go.temporal.io/sdk/workflow"

// notifyUser sends a user notification over the channel the user prefers.
// The channel picks the activity: SMS routes to the SMS activity, anything
// else defaults to push. Blocks until the notification step completes.
func notifyUser(ctx workflow.Context, in UserNotificationInput) error {
	workflow.GetLogger(ctx).Info("Notifying user.", "user_id", in.UserID, "preference", in.Channel)
	name := ActivityNotifyUserPush
	if in.Channel == ChannelSMS {
		name = ActivityNotifyUserSMS
	}
	return workflow.ExecuteActivity(ctx, name, in).Get(ctx, nil)
}

// notifyVendor sends a vendor notification over the vendor's preferred
// channel, defaulting to push.
func notifyVendor(ctx workflow.Context, in VendorNotificationInput) error {
	workflow.GetLogger(ctx).Info("Notifying vendor.", "vendor_id", in.VendorID, "preference", in.Channel)
	name := ActivityNotifyVendorPush
	if in.Channel == ChannelSMS {
		name = ActivityNotifyVendorSMS
	}
	return workflow.ExecuteActivity(ctx, name, in).Get(ctx, nil)
}
