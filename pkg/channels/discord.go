// NFTGate - Discord NFT ownership verification bot
// Discord channel: panel command, wallet/transaction modals, role grant

package channels

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/skyforge/nftgate/pkg/config"
	"github.com/skyforge/nftgate/pkg/logger"
	"github.com/skyforge/nftgate/pkg/verify"
)

const (
	buttonLinkWallet = "nftgate_link_wallet"
	buttonSubmitTx   = "nftgate_submit_tx"
	modalWallet      = "nftgate_wallet_modal"
	modalTx          = "nftgate_tx_modal"
	inputWallet      = "wallet_address"
	inputTxHash      = "tx_hash"
)

// DiscordChannel bridges Discord interactions to the verifier.
type DiscordChannel struct {
	cfg      *config.Config
	verifier *verify.Verifier
	session  *discordgo.Session
}

// NewDiscordChannel creates a Discord channel instance.
func NewDiscordChannel(cfg *config.Config, verifier *verify.Verifier) (*DiscordChannel, error) {
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	c := &DiscordChannel{
		cfg:      cfg,
		verifier: verifier,
		session:  session,
	}

	session.AddHandler(c.onMessageCreate)
	session.AddHandler(c.onInteractionCreate)

	return c, nil
}

// Name returns the channel name.
func (c *DiscordChannel) Name() string {
	return "discord"
}

// Start opens the gateway connection.
func (c *DiscordChannel) Start(ctx context.Context) error {
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	logger.InfoCF("discord", "Channel started", map[string]any{
		"role":   c.cfg.Discord.RoleName,
		"prefix": c.cfg.Discord.CommandPrefix,
	})

	return nil
}

// Stop closes the gateway connection.
func (c *DiscordChannel) Stop(ctx context.Context) error {
	logger.InfoCF("discord", "Channel stopping", nil)
	return c.session.Close()
}

// onMessageCreate handles the panel command.
func (c *DiscordChannel) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if strings.TrimSpace(m.Content) != c.cfg.Discord.CommandPrefix+"panel" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "NFT Holder Verification",
		Description: "1️⃣ Click **Link Your Wallet** to register your wallet.\n" +
			fmt.Sprintf("2️⃣ Send %s to yourself on **%s** to verify ownership.\n",
				c.minAmountDisplay(), c.cfg.Chain.Name) +
			"3️⃣ Click **Submit Transaction** and enter the transaction hash.\n" +
			fmt.Sprintf("4️⃣ If verified, you will receive the **%s** role.\n\n", c.cfg.Discord.RoleName) +
			fmt.Sprintf("You must hold at least %d NFT(s) of the collection.", c.cfg.Verification.MinNFTBalance),
		Color: 0x3498db,
	}

	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Link Your Wallet",
						Style:    discordgo.PrimaryButton,
						CustomID: buttonLinkWallet,
					},
					discordgo.Button{
						Label:    "Submit Transaction",
						Style:    discordgo.SecondaryButton,
						CustomID: buttonSubmitTx,
					},
				},
			},
		},
	})
	if err != nil {
		logger.ErrorCF("discord", "Failed to send panel", map[string]any{
			"channel": m.ChannelID,
			"error":   err.Error(),
		})
	}
}

// onInteractionCreate routes button clicks and modal submissions.
func (c *DiscordChannel) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case buttonLinkWallet:
			c.openModal(s, i, modalWallet, "Enter Your Wallet Address",
				inputWallet, "Wallet Address", "0x123456789...")
		case buttonSubmitTx:
			c.openModal(s, i, modalTx, "Enter Your Transaction Hash",
				inputTxHash, "Transaction Hash", "0x...")
		}
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		value := modalInputValue(data)
		switch data.CustomID {
		case modalWallet:
			c.handleWalletSubmit(s, i, value)
		case modalTx:
			c.handleTxSubmit(s, i, value)
		}
	}
}

func (c *DiscordChannel) openModal(s *discordgo.Session, i *discordgo.InteractionCreate, customID, title, inputID, label, placeholder string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: customID,
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    inputID,
							Label:       label,
							Style:       discordgo.TextInputShort,
							Placeholder: placeholder,
							Required:    true,
						},
					},
				},
			},
		},
	})
	if err != nil {
		logger.ErrorCF("discord", "Failed to open modal", map[string]any{
			"modal": customID,
			"error": err.Error(),
		})
	}
}

// modalInputValue extracts the single text input of a modal submission.
func modalInputValue(data discordgo.ModalSubmitInteractionData) string {
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actions.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				return strings.TrimSpace(input.Value)
			}
		}
	}
	return ""
}

func (c *DiscordChannel) handleWalletSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, rawAddress string) {
	userID := interactionUserID(i)

	wallet, err := c.verifier.SubmitWallet(userID, rawAddress)
	if err != nil {
		c.respondEphemeral(s, i, outcomeMessage(err, c.cfg))
		return
	}

	c.respondEphemeral(s, i, fmt.Sprintf(
		"⚠️ Please send **exactly %s** to your own wallet `%s` to verify ownership.\n"+
			"This must be done on **%s**.\n"+
			"You have **%d minutes** to complete this transaction.\n\n"+
			"Once you've sent the %s, click **Submit Transaction** and enter the transaction hash.",
		c.minAmountDisplay(), wallet.Hex(), c.cfg.Chain.Name,
		c.cfg.Verification.WindowSeconds/60, c.cfg.Chain.Currency))
}

func (c *DiscordChannel) handleTxSubmit(s *discordgo.Session, i *discordgo.InteractionCreate, txHash string) {
	userID := interactionUserID(i)

	result, err := c.verifier.SubmitTransaction(context.Background(), userID, txHash)
	if err != nil {
		c.respondEphemeral(s, i, outcomeMessage(err, c.cfg))
		return
	}

	if !result.Qualified {
		c.respondEphemeral(s, i, fmt.Sprintf(
			"❌ Wallet `%s` holds `%s` NFT(s), but at least %d required.",
			result.Wallet.Hex(), result.Balance.String(), c.cfg.Verification.MinNFTBalance))
		return
	}

	if err := c.grantRole(s, i); err != nil {
		logger.ErrorCF("discord", "Role grant failed", map[string]any{
			"user":  userID,
			"role":  c.cfg.Discord.RoleName,
			"error": err.Error(),
		})
		c.respondEphemeral(s, i, fmt.Sprintf(
			"✅ Ownership verified (`%s` NFTs), but assigning the **%s** role failed. Please contact a moderator.",
			result.Balance.String(), c.cfg.Discord.RoleName))
		return
	}

	c.respondEphemeral(s, i, fmt.Sprintf(
		"✅ You own `%s` NFT(s) and have been verified! 🎉\nThe **%s** role is yours.",
		result.Balance.String(), c.cfg.Discord.RoleName))
}

// grantRole resolves the configured role by name and adds it to the member.
// Adding a role the member already has is a no-op.
func (c *DiscordChannel) grantRole(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil {
		return fmt.Errorf("interaction outside a guild")
	}

	roles, err := s.GuildRoles(i.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list guild roles: %w", err)
	}

	var roleID string
	for _, role := range roles {
		if role.Name == c.cfg.Discord.RoleName {
			roleID = role.ID
			break
		}
	}
	if roleID == "" {
		return fmt.Errorf("role %q not found in guild", c.cfg.Discord.RoleName)
	}

	for _, id := range i.Member.Roles {
		if id == roleID {
			return nil
		}
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, interactionUserID(i), roleID); err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}

	logger.InfoCF("discord", "Role granted", map[string]any{
		"user": interactionUserID(i),
		"role": c.cfg.Discord.RoleName,
	})

	return nil
}

func (c *DiscordChannel) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.ErrorCF("discord", "Failed to respond to interaction", map[string]any{
			"error": err.Error(),
		})
	}
}

func (c *DiscordChannel) minAmountDisplay() string {
	return fmt.Sprintf("%s %s",
		FormatAmount(c.cfg.Verification.MinAmount(), 18), c.cfg.Chain.Currency)
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
